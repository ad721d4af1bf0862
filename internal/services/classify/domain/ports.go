package domain

import (
	"context"

	"satd/internal/core/detector"
)

// ClassifierPort is the external port of the classify module
type ClassifierPort interface {
	Classify(ctx context.Context, in ClassifyIn) (Output, error)
	ClassifyBatch(ctx context.Context, in BatchIn) (BatchOutput, error)
}

// DetectorPort is the slice of *detector.Detector the service needs
type DetectorPort interface {
	Classify(comment string) (detector.Result, error)
	Info() detector.Info
}
