package notify

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"tripwise/internal/testdb"
)

type recordingSender struct {
	messages []*gomail.Message
	err      error
}

func (s *recordingSender) DialAndSend(m ...*gomail.Message) error {
	s.messages = append(s.messages, m...)
	return s.err
}

func TestSendAddressesStaff(t *testing.T) {
	db := testdb.Open(t)
	testdb.User(t, db, "ops@example.com", true)
	testdb.User(t, db, "traveler@example.com", false)
	testdb.User(t, db, "oncall@example.com", true)

	sender := &recordingSender{}
	n := NewEmailNotifier(db, sender, "noreply@example.com")

	require.NoError(t, n.Send("Weather", errors.New("status 503")))
	require.Len(t, sender.messages, 1)

	m := sender.messages[0]
	assert.Equal(t, []string{"ops@example.com", "oncall@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Weather API failure"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "status 503")
}

func TestSendWithoutStaff(t *testing.T) {
	db := testdb.Open(t)
	testdb.User(t, db, "traveler@example.com", false)

	sender := &recordingSender{}
	require.NoError(t, NewEmailNotifier(db, sender, "x@example.com").Send("Geocoding", nil))
	assert.Empty(t, sender.messages)
}

func TestSendError(t *testing.T) {
	db := testdb.Open(t)
	testdb.User(t, db, "ops@example.com", true)

	sender := &recordingSender{err: errors.New("dial tcp: refused")}
	err := NewEmailNotifier(db, sender, "x@example.com").Send("Text generation", nil)
	assert.ErrorContains(t, err, "refused")
}
