// Package model defines the records of the remote talent API consumed by stores and views.
package model

// Identity is the authenticated user's profile and role set. It is owned
// exclusively by the session store; everything else reads snapshots of it.
type Identity struct {
	ID         int64    `json:"id"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	FirstName  string   `json:"firstName,omitempty"`
	LastName   string   `json:"lastName,omitempty"`
	Roles      []string `json:"roles"`
	CustomerID int64    `json:"customerId"`
}

// Talent is a candidate record. The server assigns ID and timestamps;
// everything else is free-form profile data.
type Talent struct {
	ID                int64   `json:"id,omitempty"`
	FirstName         string  `json:"firstName"`
	LastName          string  `json:"lastName"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone,omitempty"`
	Skills            string  `json:"skills,omitempty"`
	Experience        string  `json:"experience,omitempty"`
	Education         string  `json:"education,omitempty"`
	DateOfBirth       string  `json:"dateOfBirth,omitempty"`
	Location          string  `json:"location,omitempty"`
	LinkedinURL       string  `json:"linkedinUrl,omitempty"`
	GithubURL         string  `json:"githubUrl,omitempty"`
	PortfolioURL      string  `json:"portfolioUrl,omitempty"`
	ResumeURL         string  `json:"resumeUrl,omitempty"`
	CurrentPosition   string  `json:"currentPosition,omitempty"`
	DesiredPosition   string  `json:"desiredPosition,omitempty"`
	SalaryExpectation float64 `json:"salaryExpectation,omitempty"`
	Availability      string  `json:"availability,omitempty"`
	Notes             string  `json:"notes,omitempty"`
	CreatedAt         string  `json:"createdAt,omitempty"`
	UpdatedAt         string  `json:"updatedAt,omitempty"`
}

// User is a dashboard account, optionally scoped to a customer. Password is
// write-only: sent on create, never returned by the server.
type User struct {
	ID         int64    `json:"id,omitempty"`
	CustomerID int64    `json:"customerId"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	Password   string   `json:"password,omitempty"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Enabled    bool     `json:"enabled"`
	Roles      []string `json:"roles"`
	CreatedAt  string   `json:"createdAt,omitempty"`
	UpdatedAt  string   `json:"updatedAt,omitempty"`
}

// Page is one fetched page of a server-side collection. A new fetch replaces
// the previous page wholesale; pages are never merged or appended.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}
