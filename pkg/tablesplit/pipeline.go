package tablesplit

import (
	"context"
	"errors"
	"fmt"

	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit/xml"
)

// Result is the outcome of processing one table
type Result struct {
	Regions  []RegionMeta    `json:"regions"`
	Splits   []SplitResult   `json:"splits"`
	Extracts []ExtractResult `json:"extracts"`
	// Attempts is the number of classifier calls it took
	Attempts int `json:"attempts"`
}

// Pipeline classifies, verifies, splits and extracts tables.
// It is safe for concurrent use when its Classifier is.
type Pipeline struct {
	classifier Classifier
	config     *Config
	splitter   *Splitter
	logger     *Logger
}

// NewPipeline creates a pipeline. A nil config uses the defaults.
func NewPipeline(classifier Classifier, config *Config) (*Pipeline, error) {
	config = NewConfigWithDefaults(config)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	return &Pipeline{
		classifier: classifier,
		config:     config,
		splitter:   NewSplitter(config),
		logger:     GetLogger(),
	}, nil
}

// Classify asks the classifier for regions until they pass Verify or the
// configured attempts run out. Each retry prompt carries the previous errors.
func (p *Pipeline) Classify(ctx context.Context, table *xml.Table) ([]RegionMeta, int, error) {
	var feedback []VerificationError

	for attempt := 1; attempt <= p.config.MaxAttempts; attempt++ {
		log := p.logger.WithField("attempt", attempt)

		response, err := p.classifier.Classify(ctx, Prompt(table, feedback))
		if err != nil {
			return nil, attempt, &ClassifierError{Attempt: attempt, Cause: err}
		}

		metas, err := ParseRegions(response)
		if err != nil {
			log.Warn("unusable classifier response: %v", err)
			feedback = []VerificationError{{SourceMeta: response, ErrorMsg: fmt.Sprintf("返回内容不是有效的区域 JSON 数组: %v", err)}}
			continue
		}

		feedback = Verify(table, metas)
		if len(feedback) == 0 {
			log.Debug("regions verified: %d regions", len(metas))
			return metas, attempt, nil
		}
		log.Info("regions rejected with %d errors", len(feedback))
	}

	return nil, p.config.MaxAttempts, &VerificationFailedError{Attempts: p.config.MaxAttempts, Errors: feedback}
}

// Process runs the whole flow for table. A table without rows yields an empty result.
func (p *Pipeline) Process(ctx context.Context, table *xml.Table) (*Result, error) {
	if table == nil || len(table.Rows) == 0 {
		p.logger.Debug("table has no rows, nothing to split")
		return &Result{}, nil
	}

	metas, attempts, err := p.Classify(ctx, table)
	if err != nil {
		return nil, err
	}

	return p.apply(table, metas, attempts)
}

// ProcessRegions runs verification, splitting and extraction with metadata supplied by the caller
func (p *Pipeline) ProcessRegions(table *xml.Table, metas []RegionMeta) (*Result, error) {
	if table == nil || len(table.Rows) == 0 {
		return &Result{}, nil
	}
	if errs := Verify(table, metas); len(errs) > 0 {
		return nil, &VerificationFailedError{Attempts: 1, Errors: errs}
	}
	return p.apply(table, metas, 0)
}

func (p *Pipeline) apply(table *xml.Table, metas []RegionMeta, attempts int) (*Result, error) {
	splits, err := p.splitter.Split(table, metas)
	if err != nil {
		return nil, err
	}
	splits, err = p.splitter.PostProcess(splits)
	if err != nil {
		return nil, err
	}
	extracts, err := ExtractResults(splits)
	if err != nil {
		return nil, err
	}

	p.logger.WithFields(Fields{"regions": len(metas), "tables": len(splits)}).Info("table split")
	return &Result{
		Regions:  metas,
		Splits:   splits,
		Extracts: extracts,
		Attempts: attempts,
	}, nil
}
