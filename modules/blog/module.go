// Package blog is a small fixture domain: users write posts, comment on them
// and vote on comments. Its builder manifests live in the builders directory
// next to this file; Module supplies the Go hooks.
package blog

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/objectmomma/internal/builder"
	"github.com/specialistvlad/objectmomma/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Store *Store
}

// New returns a module backed by store, or by a fresh store when nil.
func New(store *Store) *Module {
	if store == nil {
		store = NewStore()
	}
	return &Module{Store: store}
}

// Register registers the blog handlers.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("user", builder.Hooks{
		Locate:   m.locateUser,
		Build:    m.buildUser,
		Decorate: decorateUser,
	})
	r.RegisterHandler("post", builder.Hooks{
		Locate: m.locatePost,
		Build:  m.buildPost,
	})
	r.RegisterHandler("comment", builder.Hooks{
		Locate: m.locateComment,
		Build:  m.buildComment,
	})
	r.RegisterHandler("vote", builder.Hooks{
		Locate:   m.locateVote,
		Build:    m.buildVote,
		Decorate: decorateVote,
	})
}

func (m *Module) locateUser(_ context.Context, c *builder.Child) (any, error) {
	return m.Store.Users.Where(
		func(u *User) bool { return u.FullName == c.ID },
		func(u *User) { u.FullName = c.ID },
	), nil
}

func (m *Module) buildUser(ctx context.Context, record any, c *builder.Child, attrs map[string]any) error {
	u := record.(*User)
	u.FullName = c.ID
	u.Email = stringAttr(attrs, "email", testEmail(c.ID))
	u.Username = stringAttr(attrs, "username", testUsername(c.ID))
	return m.Store.Users.Save(ctx, u)
}

func decorateUser(_ context.Context, record any, _ *builder.Child) (any, error) {
	return Citizen{record.(*User)}, nil
}

func (m *Module) locatePost(_ context.Context, c *builder.Child) (any, error) {
	title := titleFromSubject(c.String("subject"))
	return m.Store.Posts.Where(
		func(p *Post) bool { return p.Title == title },
		func(p *Post) { p.Title = title },
	), nil
}

func (m *Module) buildPost(ctx context.Context, record any, c *builder.Child, _ map[string]any) error {
	subject := c.String("subject")
	p := record.(*Post)
	p.Title = titleFromSubject(subject)
	p.Subject = subject
	p.Body = bodyFromSubject(subject)
	return m.Store.Posts.Save(ctx, p)
}

func (m *Module) locateComment(_ context.Context, c *builder.Child) (any, error) {
	author, err := userRef(c, "author")
	if err != nil {
		return nil, err
	}
	post, ok := c.Ref("post").(*Post)
	if !ok {
		return nil, fmt.Errorf("comment: post slot holds %T", c.Ref("post"))
	}
	return m.Store.Comments.Where(
		func(cm *Comment) bool { return cm.PostID == post.ID && cm.UserID == author.ID },
		nil,
	), nil
}

func (m *Module) buildComment(ctx context.Context, record any, c *builder.Child, _ map[string]any) error {
	author, err := userRef(c, "author")
	if err != nil {
		return err
	}
	cm := record.(*Comment)
	cm.Post = c.Ref("post").(*Post)
	cm.PostID = cm.Post.ID
	cm.User = author
	cm.UserID = author.ID
	return m.Store.Comments.Save(ctx, cm)
}

// voteType reads the vote_type slot. Builders that specialize vote without
// that slot cast upvotes.
func voteType(c *builder.Child) string {
	if t := c.String("vote_type"); t != "" {
		return strings.ToLower(t)
	}
	return "upvote"
}

func commentRef(c *builder.Child) (*Comment, error) {
	cm, ok := c.Ref("comment").(*Comment)
	if !ok {
		return nil, fmt.Errorf("vote: comment slot holds %T", c.Ref("comment"))
	}
	return cm, nil
}

func (m *Module) locateVote(_ context.Context, c *builder.Child) (any, error) {
	voter, err := userRef(c, "voter")
	if err != nil {
		return nil, err
	}
	cm, err := commentRef(c)
	if err != nil {
		return nil, err
	}
	kind := voteType(c)
	return m.Store.Votes.Where(
		func(v *Vote) bool { return v.CommentID == cm.ID && v.UserID == voter.ID && v.Type == kind },
		nil,
	), nil
}

func (m *Module) buildVote(ctx context.Context, record any, c *builder.Child, _ map[string]any) error {
	voter, err := userRef(c, "voter")
	if err != nil {
		return err
	}
	cm, err := commentRef(c)
	if err != nil {
		return err
	}
	v := record.(*Vote)
	v.Comment = cm
	v.CommentID = cm.ID
	v.User = voter
	v.UserID = voter.ID
	v.Type = voteType(c)

	if citizen, ok := c.Ref("voter").(Citizen); ok && citizen.Politician() {
		Ballot{v}.SwitchVote()
	}
	return m.Store.Votes.Save(ctx, v)
}

func decorateVote(_ context.Context, record any, _ *builder.Child) (any, error) {
	return Ballot{record.(*Vote)}, nil
}

// userRef unwraps a user slot, which holds a Citizen once actualized.
func userRef(c *builder.Child, slot string) (*User, error) {
	switch u := c.Ref(slot).(type) {
	case Citizen:
		return u.User, nil
	case *User:
		return u, nil
	}
	return nil, fmt.Errorf("%s: %s slot holds %T", c.Type, slot, c.Ref(slot))
}

func stringAttr(attrs map[string]any, key, fallback string) string {
	if v, ok := attrs[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
