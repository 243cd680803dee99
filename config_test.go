package arcrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"ascending", ModeAscending, false},
		{"ASCENDING", ModeAscending, false},
		{"Descending", ModeDescending, false},
		{"random", ModeRandom, false},
		{"RaNdOm", ModeRandom, false},
		{"bogus", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "ascending", ModeAscending.String())
	assert.Equal(t, "descending", ModeDescending.String())
	assert.Equal(t, "random", ModeRandom.String())
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Charset:     "ab",
		MinLength:   1,
		MaxLength:   2,
		ArchivePath: "x.7z",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty charset", func(c *Config) { c.Charset = "" }},
		{"zero min length", func(c *Config) { c.MinLength = 0 }},
		{"max below min", func(c *Config) { c.MaxLength = 0 }},
		{"missing archive", func(c *Config) { c.ArchivePath = "" }},
		{"negative checkpoint", func(c *Config) { c.CheckpointInterval = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestStopFlagPath(t *testing.T) {
	cfg := Config{SkipFilePath: "/tmp/skip.bloom"}
	assert.Equal(t, "/tmp/skip.bloom.stop", cfg.StopFlagPath())

	cfg.SkipFilePath = ""
	assert.Empty(t, cfg.StopFlagPath())
}

func TestNewRequiresTester(t *testing.T) {
	_, err := New(Config{Charset: "ab", MinLength: 1, MaxLength: 1, ArchivePath: "x"})
	assert.ErrorIs(t, err, ErrNilTester)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{Charset: "", MinLength: 1, MaxLength: 1, ArchivePath: "x"},
		WithTester(&scriptedTester{}))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
