package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/daybook/internal/core/domain"
)

func TestWrite_ThenShow(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "write", "2024-03-15", "Went hiking")
	assert.Contains(t, out, "Saved 2024-03-15 (11 characters)")

	out = env.mustRun(t, "show", "2024-03-15")
	assert.Contains(t, out, "Friday, 2024-03-15")
	assert.Contains(t, out, "Went hiking")
	assert.NotContains(t, out, "Conversation")
}

func TestWrite_Append(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "write", "2024-03-15", "Morning run")

	env.mustRun(t, "write", "--append", "2024-03-15", "Evening swim")

	entry, err := env.rt.Journal.Entry(domain.MustParseDateKey("2024-03-15"))
	require.NoError(t, err)
	assert.Equal(t, "Morning run\nEvening swim", entry.DiaryText())
}

func TestWrite_FromStdin(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "Line one\nLine two\n", "write", "2024-03-15", "-")

	require.NoError(t, err)
	assert.Contains(t, out, "Saved 2024-03-15")
	entry, err := env.rt.Journal.Entry(domain.MustParseDateKey("2024-03-15"))
	require.NoError(t, err)
	assert.Equal(t, "Line one\nLine two", entry.DiaryText())
}

func TestWrite_InvalidDate(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "write", "15/03/2024", "text")

	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestShow_MissingEntry(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "show", "2024-03-15")

	assert.Contains(t, out, "No entry for 2024-03-15")
}

func TestList(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "list")
	assert.Contains(t, out, "No entries yet")

	env.mustRun(t, "write", "2024-03-14", "Quiet day")
	env.mustRun(t, "write", "2024-03-15", "Went hiking\nwith friends")
	env.mustRun(t, "ask", "2024-03-15", "what", "next")

	out = env.mustRun(t, "list")
	assert.Contains(t, out, "2024-03-14   Quiet day")
	assert.Contains(t, out, "2024-03-15 * Went hiking")
	assert.NotContains(t, out, "with friends")
	assert.Contains(t, out, "Total: 2 entries")

	out = env.mustRun(t, "list", "--limit", "1")
	assert.NotContains(t, out, "2024-03-14")
	assert.Contains(t, out, "Total: 1 entries")
}

func TestLocate(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "locate", "2024-03-15", "38.72", "-9.14", "--place", "Lisbon", "--accuracy", "20")
	assert.Contains(t, out, "Location recorded for 2024-03-15")

	out = env.mustRun(t, "show", "2024-03-15")
	assert.Contains(t, out, "Location: Lisbon")
	assert.Contains(t, out, "(no diary text)")
}

func TestLocate_WithoutPlaceShowsCoordinates(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "locate", "2024-03-15", "38.72", "-9.14")

	out := env.mustRun(t, "show", "2024-03-15")

	assert.Contains(t, out, "Location: 38.7200, -9.1400")
}

func TestLocate_InvalidCoordinates(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "locate", "2024-03-15", "north", "-9.14")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.run(t, "", "locate", "2024-03-15", "95", "-9.14")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "short", firstLine("short\nsecond", 10))
	assert.Equal(t, "abcdefg...", firstLine("abcdefghijklmnop", 10))
	assert.Equal(t, "", firstLine("", 10))
}

func TestParseDateArg(t *testing.T) {
	env := newTestEnv(t)
	today := env.rt.Journal.Today()

	tests := []struct {
		arg     string
		want    domain.DateKey
		wantErr bool
	}{
		{arg: "", want: today},
		{arg: "today", want: today},
		{arg: "yesterday", want: today.AddDays(-1)},
		{arg: "2024-02-29", want: domain.MustParseDateKey("2024-02-29")},
		{arg: "2023-02-29", wantErr: true},
		{arg: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseDateArg(env.rt.Journal, tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
