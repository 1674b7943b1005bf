package cmd

import (
	"github.com/etnz/statement/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var kinds = predict.Set{"auto", "csv", "excel", "text", "pdf"}

// Completion describes the commands and flags for shell completion.
func Completion() *complete.Command {
	statements := predict.Files("*")
	topics, _ := docs.GetAllTopics()
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"parse": {
				Flags: map[string]complete.Predictor{
					"kind":       kinds,
					"q":          predict.Something,
					"incomplete": predict.Nothing,
				},
				Args: statements,
			},
			"export": {
				Flags: map[string]complete.Predictor{
					"kind": kinds,
					"o":    predict.Files("*.jsonl"),
				},
				Args: statements,
			},
			"tickers": {Args: predict.Something},
			"topic": {
				Flags: map[string]complete.Predictor{"l": predict.Nothing},
				Args:  predict.Set(append(topics, "*")),
			},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
		Flags: map[string]complete.Predictor{
			"tickers-file": predict.Files("*.yaml"),
			"format":       predict.Set{"markdown", "json", "html"},
			"max-bytes":    predict.Something,
			"v":            predict.Nothing,
		},
	}
}
