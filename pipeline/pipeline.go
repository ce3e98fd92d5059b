// Package pipeline wires preprocessing, generation, integration and
// publishing into one sequential run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/generator"
	"github.com/rjegjin/Specific-Skills-and-Accomplishments/publisher"
	"github.com/rjegjin/Specific-Skills-and-Accomplishments/record"
)

// Stage names reported to the progress callback.
const (
	StageCourse   = "교과"
	StageHomeroom = "담임"
)

// Paths locates the files a run reads and writes.
type Paths struct {
	Source     string
	Structured string
	Results    string
	// ReportDir receives report.md/report.html; empty disables the report.
	ReportDir string
}

// Runner executes the pipeline. Homeroom and Publisher are optional: a nil
// Homeroom skips the homeroom areas, a nil Publisher skips the sync.
type Runner struct {
	Fs        afero.Fs
	Paths     Paths
	Engine    *generator.Engine
	Homeroom  record.TabularSource
	Tabs      record.Tabs
	Publisher *publisher.Publisher
	Logger    *zap.Logger
	// Progress, when set, is called after every student.
	Progress func(stage string, done, total int, student, status string)
}

// Summary reports what a run did.
type Summary struct {
	Students       int
	CourseDone     int
	HomeroomDone   int
	Failed         []string
	MissingTabs    []string
	Synced         int
	ReportMarkdown string
	ReportHTML     string
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// Preprocess groups the observation CSV and writes the structured artifact.
// A missing CSV yields zero students and no artifact.
func (r *Runner) Preprocess() (int, error) {
	src := record.NewCSVSource(r.Fs, r.Paths.Source)
	rows, err := src.Records()
	if errors.Is(err, fs.ErrNotExist) {
		r.logger().Warn("observation log not found", zap.String("path", r.Paths.Source))
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read observations: %w", err)
	}
	groups := record.Group(rows)
	if err := record.NewStore(r.Fs, r.Paths.Structured).Save(groups); err != nil {
		return 0, fmt.Errorf("write structured observations: %w", err)
	}
	r.logger().Info("preprocessed observations",
		zap.Int("rows", len(rows)),
		zap.Int("students", len(groups)),
		zap.String("artifact", r.Paths.Structured))
	return len(groups), nil
}

// Run performs preprocess, course generation, homeroom generation,
// integration, result persistence, optional report and optional sync.
// Results produced before a failure are still saved.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	if r.Engine == nil {
		return sum, errors.New("engine is required")
	}
	log := r.logger()

	// 1. 교과
	count, err := r.Preprocess()
	if err != nil {
		return sum, err
	}
	course := map[string]string{}
	if count > 0 {
		groups, err := record.NewStore(r.Fs, r.Paths.Structured).Load()
		if err != nil {
			return sum, fmt.Errorf("load structured observations: %w", err)
		}
		var failed []string
		course, failed, err = generator.Collect(r.Engine.Course(ctx, groups), observer[string](r, StageCourse))
		sum.Failed = append(sum.Failed, failed...)
		if err != nil {
			r.saveResults(course, nil)
			return sum, fmt.Errorf("course generation: %w", err)
		}
		sum.CourseDone = len(course)
	}

	// 2. 담임 영역
	homeroom := map[string]record.HomeroomResult{}
	if r.Homeroom != nil {
		data, err := record.CollectHomeroom(ctx, r.Homeroom, r.Tabs)
		if err != nil {
			r.saveResults(course, nil)
			return sum, fmt.Errorf("collect homeroom data: %w", err)
		}
		for _, tab := range data.Missing {
			log.Warn("optional tab not found, using defaults", zap.String("tab", tab))
		}
		sum.MissingTabs = data.Missing
		var failed []string
		homeroom, failed, err = generator.Collect(r.Engine.Homeroom(ctx, data.Students), observer[record.HomeroomResult](r, StageHomeroom))
		sum.Failed = append(sum.Failed, failed...)
		if err != nil {
			r.saveResults(course, homeroom)
			return sum, fmt.Errorf("homeroom generation: %w", err)
		}
		sum.HomeroomDone = len(homeroom)
	} else {
		log.Info("no homeroom source configured, skipping homeroom areas")
	}

	// 3. 통합
	records := record.Integrate(course, homeroom)
	sum.Students = len(records)
	if err := record.SaveResults(r.Fs, r.Paths.Results, records); err != nil {
		return sum, fmt.Errorf("save results: %w", err)
	}
	log.Info("integrated results", zap.Int("students", len(records)), zap.String("path", r.Paths.Results))

	if r.Paths.ReportDir != "" {
		md, html, err := publisher.WriteReport(r.Fs, r.Paths.ReportDir, records, r.Engine.Terms())
		if err != nil {
			return sum, fmt.Errorf("write report: %w", err)
		}
		sum.ReportMarkdown, sum.ReportHTML = md, html
	}

	// 4. 동기화
	if r.Publisher != nil {
		n, err := r.Publisher.Sync(ctx, records)
		sum.Synced = n
		if err != nil {
			return sum, err
		}
	}
	return sum, nil
}

func observer[T any](r *Runner, stage string) func(generator.Progress[T]) {
	if r.Progress == nil {
		return nil
	}
	return func(p generator.Progress[T]) {
		r.Progress(stage, p.Done, p.Total, p.Student, p.Status)
	}
}

// saveResults keeps partial output after a failed run so it can be synced later.
func (r *Runner) saveResults(course map[string]string, homeroom map[string]record.HomeroomResult) {
	records := record.Integrate(course, homeroom)
	if len(records) == 0 {
		return
	}
	if err := record.SaveResults(r.Fs, r.Paths.Results, records); err != nil {
		r.logger().Error("save partial results", zap.Error(err))
		return
	}
	r.logger().Info("saved partial results", zap.Int("students", len(records)), zap.String("path", r.Paths.Results))
}
