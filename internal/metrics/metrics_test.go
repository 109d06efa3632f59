package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()
	m.AuthAttempt("login", "success")
	m.AuthAttempt("login", "success")
	m.AuthAttempt("login", "invalid_credentials")
	m.OTPIssued()
	m.OTPSwept(3)
	m.ObserveRequest("GET", "/teachers", 200, 12*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.authAttempts.WithLabelValues("login", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.otpIssued))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.otpSwept))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestDuration))
}
