package main

import (
	"bytes"
	"flag"
	"testing"

	"github.com/payform/acceptance/internal/models"
	"github.com/payform/acceptance/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("kind", "", "")
	set.String("name", "", "")
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestSelectScenarios(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr error
	}{
		{name: "whole catalog", want: 46},
		{name: "one kind", args: []string{"--kind", "credit"}, want: 23},
		{name: "named scenario for both kinds", args: []string{"--name", "approved card"}, want: 2},
		{name: "named scenario for one kind", args: []string{"--kind", "direct", "--name", "declined card"}, want: 1},
		{name: "unknown kind", args: []string{"--kind", "cash"}, wantErr: models.ErrUnknownKind},
		{name: "unknown scenario", args: []string{"--name", "free tour"}, wantErr: scenario.ErrInvalidScenario},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectScenarios(newContext(t, tt.args...))
			if tt.want == 0 {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestScenariosCommand(t *testing.T) {
	var out bytes.Buffer
	app := &cli.App{
		Writer:   &out,
		Commands: []*cli.Command{ScenariosCommand()},
	}

	require.NoError(t, app.Run([]string{"paycheck", "scenarios", "--kind", "direct"}))

	assert.Contains(t, out.String(), "approved card")
	assert.Contains(t, out.String(), "-> APPROVED")
	assert.Contains(t, out.String(), "-> no record")
	assert.Equal(t, 23, bytes.Count(out.Bytes(), []byte("\n")))
}
