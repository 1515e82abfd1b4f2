package cmd

import (
	"flag"

	"github.com/etnz/krd/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the krd command line, derived from the
// global flags and the registered commands.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flags(flag.CommandLine),
	}

	var names predict.Set
	for _, g := range groups() {
		for _, c := range g.cmds {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			sub := &complete.Command{Flags: flags(fs)}
			if c.Name() == "topic" {
				topics, _ := docs.GetAllTopics()
				sub.Args = predict.Set(topics)
			}
			root.Sub[c.Name()] = sub
			names = append(names, c.Name())
		}
	}
	root.Sub["help"] = &complete.Command{Args: names}
	root.Sub["flags"] = &complete.Command{}
	root.Sub["commands"] = &complete.Command{}
	return root
}

func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			m[f.Name] = nil
			return
		}
		m[f.Name] = predictFlag(f.Name)
	})
	return m
}

func predictFlag(name string) complete.Predictor {
	switch name {
	case "bonds", "o":
		return predict.Files("*.jsonl")
	case "config":
		return predict.Files("*.yaml")
	case "m":
		return predict.Set{"discrete", "continuous"}
	default:
		return predict.Something
	}
}
