package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStatusConstructors(t *testing.T) {
	h := NewHealthy("storage", "ok")
	assert.True(t, h.IsHealthy())
	assert.True(t, h.Healthy)
	assert.Equal(t, "storage", h.Service)

	d := NewDegraded("analytics", "slow")
	assert.True(t, d.IsDegraded())
	assert.False(t, d.Healthy)

	u := NewUnhealthy("alarm", "down")
	assert.True(t, u.IsUnhealthy())
	assert.False(t, u.Healthy)
}

func TestFromErrorStats(t *testing.T) {
	tests := []struct {
		name   string
		errors int
		want   string
	}{
		{"no errors", 0, "healthy"},
		{"at degraded boundary", 5, "healthy"},
		{"just degraded", 6, "degraded"},
		{"at unhealthy boundary", 10, "degraded"},
		{"just unhealthy", 11, "unhealthy"},
		{"far past unhealthy", 50, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromErrorStats("svc", tt.errors).Status)
		})
	}
}

func TestAggregateRules(t *testing.T) {
	healthy := NewHealthy("a", "ok")
	degraded := NewDegraded("b", "slow")
	unhealthy := NewUnhealthy("c", "down")

	empty := Aggregate("system", nil)
	assert.True(t, empty.IsHealthy())

	all := Aggregate("system", []Status{healthy, healthy})
	assert.True(t, all.IsHealthy())
	assert.Len(t, all.Dependencies, 2)

	someDegraded := Aggregate("system", []Status{healthy, degraded})
	assert.True(t, someDegraded.IsDegraded())

	// Unhealthy wins over degraded
	mixed := Aggregate("system", []Status{healthy, degraded, unhealthy})
	assert.True(t, mixed.IsUnhealthy())
}

func TestWithDependencyDoesNotShareBacking(t *testing.T) {
	base := NewHealthy("alarm", "ok")
	a := base.WithDependency(NewHealthy("storage", "ok"))
	b := base.WithDependency(NewUnhealthy("analytics", "down"))

	assert.Len(t, a.Dependencies, 1)
	assert.Len(t, b.Dependencies, 1)
	assert.Equal(t, "storage", a.Dependencies[0].Service)
	assert.Equal(t, "analytics", b.Dependencies[0].Service)
}

func TestSanitizeMessage(t *testing.T) {
	assert.Equal(t, "", SanitizeMessage(""))
	assert.Equal(t, "connect to [URL] failed", SanitizeMessage("connect to https://api.wakewell.io/v1 failed"))
	assert.Equal(t, "open [PATH] denied", SanitizeMessage("open /var/lib/wakewell/alarms.db denied"))
	assert.Equal(t, "dial [IP][PORT] refused", SanitizeMessage("dial 10.0.0.12:5432 refused"))
	assert.Contains(t, SanitizeMessage("auth failed: token=abc123,retry"), "[REDACTED]")
}

func TestWithRecentErrorsSanitizes(t *testing.T) {
	s := NewUnhealthy("voice", "errors").WithRecentErrors([]string{
		"upload to https://cdn.wakewell.io timed out",
	})
	assert.Equal(t, []string{"upload to [URL] timed out"}, s.RecentErrors)
}
