package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MJE43/cardsim/internal/api"
	"github.com/MJE43/cardsim/internal/decision"
	"github.com/MJE43/cardsim/internal/engine"
	"github.com/MJE43/cardsim/internal/sim"
)

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps("CoinFlip, Number:1:6,RandomDamage:3,Chance,Chance:record")
	require.NoError(t, err)
	assert.Equal(t, []sim.Step{
		{Op: decision.OpCoinFlip},
		{Op: decision.OpNumber, Lo: 1, Hi: 6},
		{Op: decision.OpRandomDamage, Amount: 3},
		{Op: decision.OpCoinFlip, Chance: true},
		{Op: decision.OpCoinFlip, Chance: true, Record: true},
	}, steps)

	for _, bad := range []string{"", "Number:1", "CoinFlip:2", "PickDraw", "Number:a:b", "Chance:1", "Chance:record:x"} {
		_, err := parseSteps(bad)
		assert.Error(t, err, bad)
	}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestVerifyAndSessionsCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	seeds := engine.Seeds{Server: "cli-server", Client: "cli-client"}

	out := execute(t, "verify", "--db", db,
		"--server-seed", seeds.Server, "--client-seed", seeds.Client,
		"--nonce", "3", "--steps", "CoinFlip,Number:1:6", "--save", "--name", "cli")

	var resp api.VerifyResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	want, err := sim.Verify(seeds, 3, []sim.Step{
		{Op: decision.OpCoinFlip},
		{Op: decision.OpNumber, Lo: 1, Hi: 6},
	})
	require.NoError(t, err)
	assert.Equal(t, want.Outcomes, resp.Outcomes)
	require.NotEmpty(t, resp.SessionID)

	out = execute(t, "sessions", "list", "--db", db)
	assert.Contains(t, out, resp.SessionID)
	assert.Contains(t, out, "1 of 1 sessions")

	out = execute(t, "sessions", "show", "--db", db, resp.SessionID)
	assert.Contains(t, out, "CoinFlip")
	assert.Contains(t, out, "Number")
}

func TestWriteTranscript(t *testing.T) {
	var buf bytes.Buffer
	err := writeTranscript(&buf, decision.Transcript{
		{Seq: 1, Op: decision.OpPickDraw, Source: 4, Choice: "Fireball"},
		{Seq: 2, Op: decision.OpNumber, Number: 5},
		{Seq: 3, Op: decision.OpSortSummonCopy, Order: []string{"B", "A"}},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[1], "Fireball"))
	assert.True(t, strings.HasSuffix(lines[2], "5"))
	assert.True(t, strings.HasSuffix(lines[3], "[B A]"))
}

func TestRunRecordsChanceSteps(t *testing.T) {
	db := filepath.Join(t.TempDir(), "run.db")
	seeds := engine.Seeds{Server: "run-server", Client: "run-client"}

	out := execute(t, "run", "--db", db,
		"--server-seed", seeds.Server, "--client-seed", seeds.Client,
		"--nonce", "4", "--steps", "Chance,Chance:record,Number:1:6", "--save", "--name", "chance")

	var res runResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotEmpty(t, res.SessionID)
	require.Len(t, res.Transcript, 3)
	assert.Equal(t, decision.OpCoinFlip, res.Transcript[0].Op)
	assert.Equal(t, decision.OpCoinFlip, res.Transcript[1].Op)

	steps, err := parseSteps("Chance,Chance:record,Number:1:6")
	require.NoError(t, err)
	want, err := sim.Verify(seeds, 4, steps)
	require.NoError(t, err)
	assert.Equal(t, want.Outcomes, res.Outcomes)

	replay := sim.New(sim.WithProvider(res.Transcript.Replay()))
	for i, st := range steps {
		v, err := replay.Apply(st)
		require.NoError(t, err)
		assert.Equal(t, res.Outcomes[i], v)
	}

	out = execute(t, "sessions", "show", "--db", db, res.SessionID)
	assert.Equal(t, 2, strings.Count(out, "CoinFlip"))
}
