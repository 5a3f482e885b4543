package api

import (
	"context"
	"fmt"
	"log"

	"github.com/mrlokans/shayfa/internal/crypto"
	"github.com/mrlokans/shayfa/internal/entities"
)

// BootstrapAdminID is the id of the admin created on first login.
const BootstrapAdminID = "sys-admin"

// LoginResult is returned by a successful login. User never carries the password.
type LoginResult struct {
	User  entities.User `json:"user"`
	Token string        `json:"token"`
}

// Login verifies credentials against the users collection, mints a token and
// persists it as the current session.
//
// While the users collection is empty, the configured bootstrap credentials create
// the admin account.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if err := c.wait(ctx); err != nil {
		return nil, requestError(OpLogin, entities.CollectionUsers, err)
	}

	user, err := c.authenticate(ctx, email, password)
	if err != nil {
		log.Printf("Login failed for %s: %v", email, err)
		return nil, requestError(OpLogin, entities.CollectionUsers, err)
	}

	tok, err := c.codec.Mint(*user, c.opts.Now().Add(c.opts.TokenTTL))
	if err != nil {
		return nil, requestError(OpLogin, entities.CollectionUsers, err)
	}
	if err := c.saveSession(ctx, tok); err != nil {
		return nil, requestError(OpLogin, entities.CollectionSystem, err)
	}

	log.Printf("User %s (%s) logged in", user.ID, user.Role)

	result := &LoginResult{User: *user, Token: tok}
	result.User.Password = ""
	return result, nil
}

// Logout clears the persisted session token.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.store.Delete(ctx, entities.CollectionSystem, entities.SessionRecordID); err != nil {
		return requestError(OpLogout, entities.CollectionSystem, err)
	}
	return nil
}

// CurrentToken returns the persisted session token, or "" when nobody is logged in.
func (c *Client) CurrentToken(ctx context.Context) (string, error) {
	rec, err := c.store.Get(ctx, entities.CollectionSystem, entities.SessionRecordID)
	if err != nil {
		return "", requestError(OpGet, entities.CollectionSystem, err)
	}
	if rec == nil {
		return "", nil
	}
	var session entities.Session
	if err := rec.Decode(&session); err != nil {
		return "", nil
	}
	return session.Token, nil
}

func (c *Client) authenticate(ctx context.Context, email, password string) (*entities.User, error) {
	recs, err := c.store.List(ctx, entities.CollectionUsers)
	if err != nil {
		return nil, err
	}

	for _, rec := range recs {
		var user entities.User
		if err := rec.Decode(&user); err != nil {
			log.Printf("Skipping unreadable user record %s: %v", rec.ID(), err)
			continue
		}
		if user.Email != email {
			continue
		}
		if c.passwordMatches(ctx, &user, password) {
			return &user, nil
		}
	}

	if len(recs) == 0 && c.isBootstrap(email, password) {
		return c.createBootstrapAdmin(ctx, email, password)
	}
	return nil, ErrInvalidCredentials
}

// passwordMatches checks password against the stored hash. Plaintext passwords
// left by older clients are accepted once and replaced by a hash.
func (c *Client) passwordMatches(ctx context.Context, user *entities.User, password string) bool {
	if crypto.IsHash(user.Password) {
		return crypto.CheckPassword(password, user.Password) == nil
	}
	if user.Password == "" || user.Password != password {
		return false
	}

	hash, err := crypto.HashPassword(password, c.opts.BcryptCost)
	if err != nil {
		log.Printf("Failed to hash legacy password for user %s: %v", user.ID, err)
		return true
	}
	user.Password = hash
	rec, err := entities.ToRecord(user)
	if err == nil {
		_, err = c.store.Put(ctx, entities.CollectionUsers, rec)
	}
	if err != nil {
		log.Printf("Failed to upgrade legacy password for user %s: %v", user.ID, err)
	}
	return true
}

func (c *Client) isBootstrap(email, password string) bool {
	return c.opts.BootstrapEmail != "" &&
		email == c.opts.BootstrapEmail &&
		password == c.opts.BootstrapPassword
}

func (c *Client) createBootstrapAdmin(ctx context.Context, email, password string) (*entities.User, error) {
	hash, err := crypto.HashPassword(password, c.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash bootstrap password: %w", err)
	}
	admin := entities.User{
		ID:       BootstrapAdminID,
		Email:    email,
		Password: hash,
		Role:     entities.UserRoleAdmin,
	}
	rec, err := entities.ToRecord(admin)
	if err != nil {
		return nil, err
	}
	if _, err := c.store.Insert(ctx, entities.CollectionUsers, rec); err != nil {
		return nil, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	log.Printf("Created bootstrap admin %s", email)
	return &admin, nil
}

func (c *Client) saveSession(ctx context.Context, tok string) error {
	rec, err := entities.ToRecord(entities.Session{ID: entities.SessionRecordID, Token: tok})
	if err != nil {
		return err
	}
	_, err = c.store.Put(ctx, entities.CollectionSystem, rec)
	return err
}
