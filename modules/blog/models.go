package blog

import (
	"strings"

	"github.com/specialistvlad/objectmomma/internal/inmemorystore"
)

// User is a registered blog user.
type User struct {
	inmemorystore.Model
	FullName string
	Email    string
	Username string
}

// Identifier returns the user's display identifier, their full name.
func (u *User) Identifier() string { return u.FullName }

// Post is a blog post.
type Post struct {
	inmemorystore.Model
	Title   string
	Subject string
	Body    string
}

// Identifier returns the post's display identifier.
func (p *Post) Identifier() string { return "Post about " + p.Subject }

// Comment is left by a user on a post.
type Comment struct {
	inmemorystore.Model
	PostID int64
	UserID int64
	Post   *Post
	User   *User
	Text   string
}

// Identifier returns the comment's display identifier.
func (c *Comment) Identifier() string {
	return c.User.Identifier() + "'s Comment on " + c.Post.Identifier()
}

// Vote is cast by a user on a comment. Type is "upvote" or "downvote".
type Vote struct {
	inmemorystore.Model
	CommentID int64
	UserID    int64
	Comment   *Comment
	User      *User
	Type      string
}

// Upvote reports whether the vote is an upvote.
func (v *Vote) Upvote() bool { return v.Type == "upvote" }

// Downvote reports whether the vote is a downvote.
func (v *Vote) Downvote() bool { return v.Type == "downvote" }

// Citizen is a User as returned by the engine. It adds Politician.
type Citizen struct {
	*User
}

// Politician reports whether the user is one.
func (c Citizen) Politician() bool {
	return c.FullName == "John Adams"
}

// Ballot is a Vote as returned by the engine. It adds SwitchVote.
type Ballot struct {
	*Vote
}

// SwitchVote flips an upvote to a downvote and anything else to an upvote.
func (b Ballot) SwitchVote() {
	if b.Upvote() {
		b.Type = "downvote"
	} else {
		b.Type = "upvote"
	}
}

// testUsername turns "Scott Pilgrim" into "scottpilgrim".
func testUsername(fullName string) string {
	parts := strings.SplitN(fullName, " ", 2)
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, "")
}

func testEmail(fullName string) string {
	return testUsername(fullName) + "@zz.zzz"
}

func titleFromSubject(subject string) string {
	if subject == "Comic Books" {
		return "Batman"
	}
	return "My Thoughts on " + subject
}

func bodyFromSubject(subject string) string {
	switch subject {
	case "Comic Books":
		return "Batman is the best comic book of all time"
	case "Politics":
		return "John Adams was a great leader."
	}
	return "Lorem Ipsum"
}
