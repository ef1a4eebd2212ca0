package notice

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/user"
)

type Audience string

// Target audiences
const (
	AudienceAll      Audience = "all"
	AudienceStaff    Audience = "staff"
	AudienceStudents Audience = "students"
)

func (a Audience) Valid() bool {
	switch a {
	case AudienceAll, AudienceStaff, AudienceStudents:
		return true
	}
	return false
}

// AudiencesFor lists the audiences whose notices role may read.
func AudiencesFor(role user.Role) []Audience {
	switch role {
	case user.RoleSuperAdmin, user.RoleManagement:
		return []Audience{AudienceAll, AudienceStaff, AudienceStudents}
	case user.RoleStaff:
		return []Audience{AudienceAll, AudienceStaff}
	default:
		return []Audience{AudienceAll, AudienceStudents}
	}
}

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool { return p == PriorityNormal || p == PriorityHigh }

type Notice struct {
	ID             string     `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Content        string     `json:"content" db:"content"`
	TargetAudience Audience   `json:"targetAudience" db:"target_audience"`
	Priority       Priority   `json:"priority" db:"priority"`
	IsPublished    bool       `json:"isPublished" db:"is_published"`
	PublishedBy    *string    `json:"publishedBy" db:"published_by"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	ExpiresAt      *time.Time `json:"expiresAt" db:"expires_at"`
}

// VisibleTo reports whether a user with role may read n at now.
func (n Notice) VisibleTo(role user.Role, now time.Time) bool {
	return QueryFilter{Audiences: AudiencesFor(role), Now: now}.Matches(n)
}

type NewNotice struct {
	Title          string     `json:"title" validate:"required,max=200"`
	Content        string     `json:"content" validate:"required"`
	TargetAudience Audience   `json:"targetAudience" validate:"required,audience"`
	Priority       Priority   `json:"priority" validate:"omitempty,priority"`
	IsPublished    *bool      `json:"isPublished"`
	ExpiresAt      *time.Time `json:"expiresAt"`
}

func (nn *NewNotice) Validate(validate *validator.Validate) error {
	nn.Title = core.CleanString(nn.Title)
	nn.Content = core.CleanString(nn.Content)
	if nn.Priority == "" {
		nn.Priority = PriorityNormal
	}
	return validate.Struct(nn)
}

// QueryFilter selects published notices for the given audiences that have not expired at Now.
type QueryFilter struct {
	Audiences []Audience
	Now       time.Time
}

// Matches reports whether n is published, unexpired at Now and addressed to one of Audiences.
func (f QueryFilter) Matches(n Notice) bool {
	if !n.IsPublished || (n.ExpiresAt != nil && !f.Now.Before(*n.ExpiresAt)) {
		return false
	}
	for _, a := range f.Audiences {
		if n.TargetAudience == a {
			return true
		}
	}
	return false
}
