package blog

import "github.com/specialistvlad/objectmomma/internal/inmemorystore"

// Store holds the blog tables.
type Store struct {
	Users    *inmemorystore.Table[*User]
	Posts    *inmemorystore.Table[*Post]
	Comments *inmemorystore.Table[*Comment]
	Votes    *inmemorystore.Table[*Vote]
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		Users:    inmemorystore.NewTable("users", func() *User { return &User{} }),
		Posts:    inmemorystore.NewTable("posts", func() *Post { return &Post{} }),
		Comments: inmemorystore.NewTable("comments", func() *Comment { return &Comment{} }),
		Votes:    inmemorystore.NewTable("votes", func() *Vote { return &Vote{} }),
	}
}

// Reset empties every table.
func (s *Store) Reset() {
	s.Users.Reset()
	s.Posts.Reset()
	s.Comments.Reset()
	s.Votes.Reset()
}
