package main

import (
	"flag"
	"strings"

	"github.com/etnz/riskreport/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the commander subcommands and flags for shell
// completion. Install it with COMP_INSTALL=1 riskr.
func completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{},
	}
	c.VisitAll(func(f *flag.Flag) {
		root.Flags[f.Name] = flagPredictor(f)
	})

	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		fs := flag.NewFlagSet(sc.Name(), flag.ContinueOnError)
		sc.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) {
			sub.Flags[f.Name] = flagPredictor(f)
		})
		switch sc.Name() {
		case "topic":
			if topics, err := docs.GetAllTopics(); err == nil {
				sub.Args = predict.Set(topics)
			}
		case "help":
			var names []string
			c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
				names = append(names, sc.Name())
			})
			sub.Args = predict.Set(names)
		}
		root.Sub[sc.Name()] = sub
	})
	return root
}

func flagPredictor(f *flag.Flag) complete.Predictor {
	switch f.Name {
	case "md":
		return predict.Files("*.md")
	case "pdf":
		return predict.Files("*.pdf")
	case "source":
		return predict.Set{"yahoo", "eodhd"}
	}
	if g, ok := f.Value.(flag.Getter); ok {
		if _, ok := g.Get().(bool); ok {
			return predict.Nothing
		}
	}
	if strings.HasSuffix(f.Name, "-api-key") {
		return predict.Nothing
	}
	return predict.Something
}
