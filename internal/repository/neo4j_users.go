package repository

import (
	"context"
	"fmt"

	"github.com/vanshika/campusnav/backend/internal/domain"
	"github.com/vanshika/campusnav/backend/internal/graph"
)

// CreateUser creates a :User node. Duplicate usernames and emails are
// rejected by the uniqueness constraints and surface as domain.ErrConflict.
func (n *Neo4j) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	res, err := n.writeOne(ctx, createUserCypher, map[string]any{
		"props": map[string]any{
			"username":     user.Username,
			"email":        user.Email,
			"passwordHash": user.PasswordHash,
			"role":         user.Role,
			"isActive":     user.IsActive,
			"createdAt":    formatTime(n.nowFn()),
		},
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("create user %q: %w", user.Username, err)
	}
	if len(res.Records) == 0 {
		return domain.User{}, fmt.Errorf("create user %q: no record returned", user.Username)
	}
	return userFromRecord(res.Records[0]), nil
}

// GetUserByUsername fetches the account used at login.
func (n *Neo4j) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	res, err := n.client.Read(ctx, graph.Statement{Cypher: getUserCypher, Params: map[string]any{"username": username}})
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %q: %w", username, err)
	}
	if len(res.Records) == 0 {
		return domain.User{}, userNotFound(username)
	}
	return userFromRecord(res.Records[0]), nil
}

func userFromRecord(record graph.Record) domain.User {
	active, _ := record["isActive"].(bool)
	return domain.User{
		ID:           toInt64(record["id"]),
		Username:     toString(record["username"]),
		Email:        toString(record["email"]),
		PasswordHash: toString(record["passwordHash"]),
		Role:         toString(record["role"]),
		IsActive:     active,
		CreatedAt:    parseTime(toString(record["createdAt"])),
	}
}

const userProjection = `u.id AS id,
       u.username AS username,
       u.email AS email,
       u.passwordHash AS passwordHash,
       u.role AS role,
       u.isActive AS isActive,
       u.createdAt AS createdAt`

const createUserCypher = `
MERGE (seq:Sequence {name: "User"})
ON CREATE SET seq.value = 0
SET seq.value = seq.value + 1
WITH seq
CREATE (u:User {id: seq.value})
SET u += $props
RETURN ` + userProjection + `
`

const getUserCypher = `
MATCH (u:User {username: $username})
RETURN ` + userProjection + `
`
