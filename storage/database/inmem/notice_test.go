package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfurqan/portal/core/notice"
	"github.com/alfurqan/portal/core/user"
)

func TestQueryNoticesMatchesVisibleTo(t *testing.T) {
	ctx := context.Background()
	repo := NewNoticeRepository(Open())
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	past, future := now.Add(-time.Hour), now.Add(time.Hour)

	var all []notice.Notice
	for i, n := range []notice.Notice{
		{Title: "all", TargetAudience: notice.AudienceAll, IsPublished: true},
		{Title: "staff", TargetAudience: notice.AudienceStaff, IsPublished: true},
		{Title: "students", TargetAudience: notice.AudienceStudents, IsPublished: true},
		{Title: "draft", TargetAudience: notice.AudienceAll},
		{Title: "expired", TargetAudience: notice.AudienceAll, IsPublished: true, ExpiresAt: &past},
		{Title: "expires now", TargetAudience: notice.AudienceAll, IsPublished: true, ExpiresAt: &now},
		{Title: "running", TargetAudience: notice.AudienceStaff, IsPublished: true, ExpiresAt: &future},
	} {
		n.CreatedAt = now.Add(-time.Duration(i) * time.Minute)
		created, err := repo.CreateNotice(ctx, n)
		require.NoError(t, err)
		all = append(all, created)
	}

	for _, role := range user.AllRoles {
		t.Run(string(role), func(t *testing.T) {
			var want []string
			for _, n := range all {
				if n.VisibleTo(role, now) {
					want = append(want, n.Title)
				}
			}

			got, err := repo.QueryNotices(ctx, notice.QueryFilter{Audiences: notice.AudiencesFor(role), Now: now})
			require.NoError(t, err)
			var titles []string
			for _, n := range got {
				titles = append(titles, n.Title)
			}
			assert.Equal(t, want, titles)
		})
	}
}
