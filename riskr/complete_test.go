package main

import (
	"flag"
	"testing"

	"github.com/etnz/riskreport/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2/predict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion(t *testing.T) {
	fs := flag.NewFlagSet("riskr", flag.ContinueOnError)
	fs.Bool("v", false, "")
	commander := subcommands.NewCommander(fs, "riskr")
	commander.Register(commander.HelpCommand(), "help")
	cmd.Register(commander)

	root := completion(commander)
	assert.Equal(t, predict.Nothing, root.Flags["v"])

	report, ok := root.Sub["report"]
	require.True(t, ok)
	assert.Contains(t, report.Flags, "weights")
	assert.Equal(t, predict.Set{"yahoo", "eodhd"}, report.Flags["source"])
	assert.Equal(t, predict.Nothing, report.Flags["chart"])

	topic := root.Sub["topic"]
	require.NotNil(t, topic)
	assert.Contains(t, topic.Args.Predict(""), "report")

	help := root.Sub["help"]
	require.NotNil(t, help)
	assert.Contains(t, help.Args.Predict(""), "prices")
}
