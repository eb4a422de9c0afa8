package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want struct {
			level zerolog.Level
			error bool
		}
	}{
		{
			name: "prod",
			env:  EnvProd,
			want: struct {
				level zerolog.Level
				error bool
			}{level: zerolog.InfoLevel},
		},
		{
			name: "dev",
			env:  EnvDev,
			want: struct {
				level zerolog.Level
				error bool
			}{level: zerolog.DebugLevel},
		},
		{
			name: "local",
			env:  EnvLocal,
			want: struct {
				level zerolog.Level
				error bool
			}{level: zerolog.TraceLevel},
		},
		{
			name: "unknown env",
			env:  "staging",
			want: struct {
				level zerolog.Level
				error bool
			}{level: zerolog.Disabled, error: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.env)
			if tt.want.error {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want.level, log.GetLevel())
		})
	}
}
