package assistant

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Srimaan215/Roku-AI/internal/agent"
	"github.com/Srimaan215/Roku-AI/internal/appconfig"
	"github.com/Srimaan215/Roku-AI/internal/clock"
	"github.com/Srimaan215/Roku-AI/internal/providers"
)

var refNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

type scripted struct {
	mu       sync.Mutex
	outputs  []string
	requests []providers.GenerateRequest
	closed   bool
}

func (s *scripted) Generate(_ context.Context, req providers.GenerateRequest) (providers.GenerateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	i := min(len(s.requests)-1, len(s.outputs)-1)
	return providers.GenerateResponse{Text: s.outputs[i]}, nil
}

func (s *scripted) Name() string { return "scripted/test" }
func (s *scripted) Ping(context.Context) error { return nil }
func (s *scripted) Close() error {
	s.closed = true
	return nil
}

func testConfig(t *testing.T) appconfig.Config {
	t.Helper()
	dir := t.TempDir()
	profilePath := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(profilePath, []byte("identity:\n  name: Sam\n  school: State\ngoals: finish thesis\n"), 0o644))

	var cfg appconfig.Config
	cfg.Timezone = "UTC"
	cfg.Profile.Path = profilePath
	cfg.Reminders.Enabled = true
	cfg.Reminders.Database = filepath.Join(dir, "reminders.db")
	return cfg
}

func TestAskCreatesReminder(t *testing.T) {
	gen := &scripted{outputs: []string{
		`{"name": "create_reminder", "parameters": {"name": "Call mom", "due_time": "3pm"}}`,
		"Done! I'll remind you at 3.",
	}}
	var transcripts []agent.Transcript
	a, err := New(context.Background(), testConfig(t),
		WithGenerator(gen),
		WithClock(clock.NewFixed(refNow)),
		WithTranscript(func(tr agent.Transcript) { transcripts = append(transcripts, tr) }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	answer, err := a.Ask(context.Background(), "remind me to call mom at 3pm")
	require.NoError(t, err)
	assert.Equal(t, "Done! I'll remind you at 3.", answer)

	require.Len(t, gen.requests, 2)
	assert.Contains(t, gen.requests[0].Messages[0].Content, "personal AI assistant for Sam.")
	assert.Contains(t, gen.requests[1].Messages[3].Content, "Reminder created: 'Call mom'")

	items, err := a.Reminders().List(context.Background(), "Task Master", false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Call mom", items[0].Name)
	require.NotNil(t, items[0].Due)
	assert.Equal(t, 15, items[0].Due.Hour())

	require.Len(t, transcripts, 1)
	assert.Len(t, transcripts[0].Rounds, 2)
}

func TestStatusReportsProviders(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), WithGenerator(&scripted{outputs: []string{"hi"}}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	byName := map[string]bool{}
	for _, s := range a.Status(context.Background()) {
		byName[s.Name] = s.Connected
	}
	assert.True(t, byName["model"])
	assert.True(t, byName["reminders"])
	assert.True(t, byName["profile"])
	assert.False(t, byName["calendar"])
	assert.False(t, byName["weather"])
	assert.False(t, byName["ics"])
	assert.Nil(t, a.Feeds())
}

func TestMissingProfileDegrades(t *testing.T) {
	cfg := testConfig(t)
	cfg.Profile.Path = filepath.Join(t.TempDir(), "absent.yaml")
	cfg.Profile.Username = "alex"
	gen := &scripted{outputs: []string{"hello"}}

	a, err := New(context.Background(), cfg, WithGenerator(gen))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	_, err = a.Ask(context.Background(), "hi")
	require.NoError(t, err)
	assert.Contains(t, gen.requests[0].Messages[0].Content, "personal AI assistant for alex.")
}

func TestFeedsWiredFromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Reminders.Enabled = false
	cfg.ICS.Feeds = []appconfig.Feed{{Name: "school", URL: "http://127.0.0.1:1/school.ics"}}

	a, err := New(context.Background(), cfg, WithGenerator(&scripted{outputs: []string{"x"}}))
	require.NoError(t, err)
	require.NotNil(t, a.Feeds())
	assert.Equal(t, []string{"school"}, a.Feeds().Feeds())
	assert.Nil(t, a.Reminders())
}

func TestCloseClosesGenerator(t *testing.T) {
	gen := &scripted{outputs: []string{"x"}}
	a, err := New(context.Background(), testConfig(t), WithGenerator(gen))
	require.NoError(t, err)
	require.NoError(t, a.Close())
	assert.True(t, gen.closed)
}
