package generator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/record"
)

// Progress is emitted after each student. Results and Failed are snapshots
// owned by the receiver; later events never mutate them.
type Progress[T any] struct {
	Done    int
	Total   int
	Student string
	// Status is the validation status of the student just processed.
	Status  string
	Results map[string]T
	Failed  []string
}

// Fraction returns Done/Total in [0,1].
func (p Progress[T]) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Done) / float64(p.Total)
}

// Options configures an Engine.
type Options struct {
	Templates Templates
	Terms     TermSet
	// SkipFailures continues the batch when one student's call fails.
	SkipFailures bool
	// CallTimeout bounds each model call; zero means no limit.
	CallTimeout time.Duration
	Logger      *zap.Logger
}

// Engine drives per-student generation and validation.
type Engine struct {
	llm  LLMClient
	opts Options
	log  *zap.Logger
}

func NewEngine(llm LLMClient, opts Options) (*Engine, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if opts.Templates == nil {
		opts.Templates = DefaultTemplates()
	}
	for _, a := range record.Areas {
		if strings.TrimSpace(opts.Templates[a]) == "" {
			return nil, fmt.Errorf("prompt template for %s is empty", a)
		}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{llm: llm, opts: opts, log: log}, nil
}

// Terms returns the prohibited terms the engine validates against.
func (e *Engine) Terms() TermSet { return e.opts.Terms }

// Course generates the course-area text of every group, in order.
// Texts are validated in report mode.
func (e *Engine) Course(ctx context.Context, groups []record.StudentGroup) iter.Seq2[Progress[string], error] {
	return stream(ctx, e, groups,
		func(g record.StudentGroup) string { return g.Name },
		func(ctx context.Context, g record.StudentGroup) (string, string, error) {
			res, err := e.generate(ctx, g.Name, record.AreaCourse, BuildCoursePrompt(e.opts.Templates[record.AreaCourse], g), ModeReport)
			if err != nil {
				return "", "", err
			}
			return res.Text, res.Status(), nil
		})
}

// Homeroom generates career, autonomous and behavior texts per student.
// Texts are validated in embed mode, so warnings travel inside the text.
func (e *Engine) Homeroom(ctx context.Context, students []record.HomeroomInput) iter.Seq2[Progress[record.HomeroomResult], error] {
	return stream(ctx, e, students,
		func(in record.HomeroomInput) string { return in.Name },
		func(ctx context.Context, in record.HomeroomInput) (record.HomeroomResult, string, error) {
			t := e.opts.Templates
			prompts := []struct {
				area   record.Area
				prompt Prompt
			}{
				{record.AreaCareer, BuildCareerPrompt(t[record.AreaCareer], in)},
				{record.AreaAutonomous, BuildAutonomousPrompt(t[record.AreaAutonomous], in)},
				{record.AreaBehavior, BuildBehaviorPrompt(t[record.AreaBehavior], in)},
			}
			texts := make([]string, len(prompts))
			var statuses []string
			for i, p := range prompts {
				res, err := e.generate(ctx, in.Name, p.area, p.prompt, ModeEmbed)
				if err != nil {
					return record.HomeroomResult{}, "", err
				}
				texts[i] = res.Text
				statuses = append(statuses, res.Status())
			}
			return record.HomeroomResult{
				Career:     texts[0],
				Autonomous: texts[1],
				Behavior:   texts[2],
			}, CombineStatuses(statuses), nil
		})
}

func (e *Engine) generate(ctx context.Context, name string, area record.Area, p Prompt, mode Mode) (ValidationResult, error) {
	if e.opts.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.CallTimeout)
		defer cancel()
	}
	start := time.Now()
	raw, err := e.llm.Complete(ctx, p)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("generate %s: %w", area, err)
	}
	res := Validate(raw, name, e.opts.Terms, mode)
	fields := []zap.Field{
		zap.String("student", name),
		zap.String("area", string(area)),
		zap.Int("bytes", ByteCount(res.Text)),
		zap.Duration("elapsed", time.Since(start)),
	}
	if res.Clean() {
		e.log.Debug("generated", fields...)
	} else {
		e.log.Warn("prohibited terms", append(fields, zap.Strings("terms", res.Flagged))...)
	}
	return res, nil
}

func stream[I, T any](
	ctx context.Context,
	e *Engine,
	items []I,
	nameOf func(I) string,
	work func(context.Context, I) (T, string, error),
) iter.Seq2[Progress[T], error] {
	return func(yield func(Progress[T], error) bool) {
		results := make(map[string]T, len(items))
		var failed []string
		snapshot := func(done int, name, status string) Progress[T] {
			return Progress[T]{
				Done:    done,
				Total:   len(items),
				Student: name,
				Status:  status,
				Results: maps.Clone(results),
				Failed:  slices.Clone(failed),
			}
		}
		for i, item := range items {
			name := nameOf(item)
			if err := ctx.Err(); err != nil {
				yield(snapshot(i, name, ""), err)
				return
			}
			val, status, err := work(ctx, item)
			if err != nil {
				err = fmt.Errorf("%s: %w", name, err)
				if !e.opts.SkipFailures || ctx.Err() != nil {
					yield(snapshot(i, name, ""), err)
					return
				}
				e.log.Warn("generation failed, skipping", zap.String("student", name), zap.Error(err))
				failed = append(failed, name)
			} else {
				results[name] = val
			}
			if !yield(snapshot(i+1, name, status), nil) {
				return
			}
		}
	}
}

// Collect drains a stream and returns the final results. observe, when
// non-nil, sees every event. On error the results gathered so far are
// returned with it.
func Collect[T any](seq iter.Seq2[Progress[T], error], observe func(Progress[T])) (map[string]T, []string, error) {
	results := map[string]T{}
	var failed []string
	for p, err := range seq {
		if p.Results != nil {
			results = p.Results
		}
		failed = p.Failed
		if err != nil {
			return results, failed, err
		}
		if observe != nil {
			observe(p)
		}
	}
	return results, failed, nil
}

// CombineStatuses joins the distinct warning statuses with " | ", or returns
// StatusAllClean when none of them is a warning.
func CombineStatuses(statuses []string) string {
	var warn []string
	for _, s := range statuses {
		if IsWarning(s) && !slices.Contains(warn, s) {
			warn = append(warn, s)
		}
	}
	if len(warn) == 0 {
		return StatusAllClean
	}
	return strings.Join(warn, " | ")
}

// RecordStatus re-validates every area of rec in report mode and combines
// the statuses for the final sheet column.
func RecordStatus(rec record.IntegratedRecord, terms TermSet) string {
	statuses := make([]string, 0, len(record.Areas))
	for _, a := range record.Areas {
		statuses = append(statuses, Validate(rec.Text(a), rec.Name, terms, ModeReport).Status())
	}
	return CombineStatuses(statuses)
}
