package fizzy

import (
	"time"
)

// Resource is the base structure shared by Fizzy API resources.
type Resource struct {
	ID        int64     `json:"id"         yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	URL       string    `json:"url"        yaml:"url"`
}

// Board is a project board.
type Board struct {
	Resource

	Name      string `json:"name"       yaml:"name"`
	AllAccess bool   `json:"all_access" yaml:"all_access"`
	Creator   *User  `json:"creator,omitempty" yaml:"creator,omitempty"`
}

// Column is a named lane on a board.
type Column struct {
	Resource

	Name     string `json:"name"     yaml:"name"`
	Color    string `json:"color"    yaml:"color"`
	Position int    `json:"position" yaml:"position"`
}

// CardStatus is the lifecycle state of a card.
type CardStatus string

const (
	CardStatusOpen   CardStatus = "open"
	CardStatusClosed CardStatus = "closed"
)

// Card is a unit of work on a board.
type Card struct {
	Resource

	Number         int        `json:"number"           yaml:"number"`
	Title          string     `json:"title"            yaml:"title"`
	Description    string     `json:"description"      yaml:"description"`
	Status         CardStatus `json:"status"           yaml:"status"`
	Golden         bool       `json:"golden"           yaml:"golden"`
	LastActivityAt time.Time  `json:"last_activity_at" yaml:"last_activity_at"`

	Board     *Board  `json:"board,omitempty"     yaml:"board,omitempty"`
	Column    *Column `json:"column,omitempty"    yaml:"column,omitempty"`
	Creator   *User   `json:"creator,omitempty"   yaml:"creator,omitempty"`
	Assignees []User  `json:"assignees,omitempty" yaml:"assignees,omitempty"`
	Tags      []Tag   `json:"tags,omitempty"      yaml:"tags,omitempty"`
}

// Comment is a message posted on a card.
type Comment struct {
	Resource

	Body      string     `json:"body"                yaml:"body"`
	Creator   *User      `json:"creator,omitempty"   yaml:"creator,omitempty"`
	Reactions []Reaction `json:"reactions,omitempty" yaml:"reactions,omitempty"`
}

// Reaction is an emoji response to a comment.
type Reaction struct {
	ID      int64  `json:"id"                yaml:"id"`
	Content string `json:"content"           yaml:"content"`
	Reactor *User  `json:"reactor,omitempty" yaml:"reactor,omitempty"`
}

// Step is a checklist item on a card.
type Step struct {
	ID        int64  `json:"id"        yaml:"id"`
	Content   string `json:"content"   yaml:"content"`
	Completed bool   `json:"completed" yaml:"completed"`
	Position  int    `json:"position"  yaml:"position"`
}

// Tag is an account-wide label applied to cards.
type Tag struct {
	ID    int64  `json:"id"    yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// UserRole is the permission level of a user within an account.
type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleMember UserRole = "member"
)

// User is an account member.
type User struct {
	ID           int64    `json:"id"            yaml:"id"`
	Name         string   `json:"name"          yaml:"name"`
	EmailAddress string   `json:"email_address" yaml:"email_address"`
	Role         UserRole `json:"role"          yaml:"role"`
	Active       bool     `json:"active"        yaml:"active"`
	AvatarURL    string   `json:"avatar_url"    yaml:"avatar_url"`
}

// Notification is an event addressed to the current user.
type Notification struct {
	Resource

	Action  string `json:"action"            yaml:"action"`
	Read    bool   `json:"read"              yaml:"read"`
	Title   string `json:"title"             yaml:"title"`
	Creator *User  `json:"creator,omitempty" yaml:"creator,omitempty"`
	Card    *Card  `json:"card,omitempty"    yaml:"card,omitempty"`
}

// Account is a tenant the authenticated user belongs to.
type Account struct {
	ID   int64  `json:"id"   yaml:"id"`
	Slug string `json:"slug" yaml:"slug"`
	Name string `json:"name" yaml:"name"`
}

// Identity is the /my/identity response: the authenticated user and the
// accounts their credential can reach.
type Identity struct {
	User     User      `json:"user"     yaml:"user"`
	Accounts []Account `json:"accounts" yaml:"accounts"`
}

// Attachment is an uploaded file associated with a card.
type Attachment struct {
	ID          int64  `json:"id"           yaml:"id"`
	Filename    string `json:"filename"     yaml:"filename"`
	ContentType string `json:"content_type" yaml:"content_type"`
	ByteSize    int64  `json:"byte_size"    yaml:"byte_size"`
	URL         string `json:"url"          yaml:"url"`
}

// CredentialType distinguishes the two supported token shapes.
type CredentialType string

const (
	// CredentialBearer is a personal access token sent as an
	// Authorization: Bearer header.
	CredentialBearer CredentialType = "bearer"

	// CredentialSession is a session token sent as a cookie, produced by the
	// magic-link flow.
	CredentialSession CredentialType = "session"
)

// Credential is an immutable authentication credential. The request pipeline
// only ever reads it.
type Credential struct {
	Type  CredentialType
	Token string
}
