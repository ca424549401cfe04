package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/jjgarcianorway/annad/internal/fact"
	"github.com/jjgarcianorway/annad/internal/guard"
	"github.com/jjgarcianorway/annad/internal/knowledge"
	"github.com/jjgarcianorway/annad/internal/llm"
	"github.com/jjgarcianorway/annad/internal/orchestrator"
	"github.com/jjgarcianorway/annad/internal/probe"
	"github.com/jjgarcianorway/annad/internal/router"
	"github.com/jjgarcianorway/annad/internal/scorer"
	"github.com/jjgarcianorway/annad/internal/telemetry"
	"github.com/jjgarcianorway/annad/internal/ticket"
	"github.com/jjgarcianorway/annad/internal/transcript"
	"github.com/jjgarcianorway/annad/internal/triage"
)

// Service wires translate → triage → decompose/solve/synthesize → guard →
// score → resolve → record into the single entry point the IPC layer (and
// the CLI, indirectly) calls for every `query` request (spec §4 end to end).
type Service struct {
	Catalog          *probe.Catalog
	Runner           *probe.Runner
	Translator       *llm.Adapter
	Facts            fact.Store
	Docs             knowledge.DocStore
	Telemetry        *telemetry.Writer
	FallbackTemplate string
	MaxConcurrent    int
	TicketDeadline   time.Duration
	ResolvedThreshold int
	Tickets          *TicketStore
	Logger           *slog.Logger
}

// Result is what the IPC `query` method returns.
type Result struct {
	Answer       string
	Reliability  scorer.Score
	TranscriptID string
	Ticket       *ticket.Ticket
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// HandleQuery runs one query through the full pipeline and returns a
// terminal Result. It never returns an error: every failure mode resolves
// into a low-reliability answer instead (spec §7: "the user is always given
// a response").
func (s *Service) HandleQuery(ctx context.Context, text string) Result {
	start := time.Now()
	if s.TicketDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.TicketDeadline)
		defer cancel()
	}

	tr := transcript.New()
	tr.Append(transcript.Event{Kind: transcript.KindStageStart, From: "router", Detail: map[string]string{"query": text}})

	class := router.Classify(text)
	strategy := router.StrategyFor(class)

	t := ticket.New(text, "sysadmin", start)
	t.Transition(ticket.StatusAssigned)
	t.Transition(ticket.StatusInProgress)

	knownProbeIDs := s.Catalog.IDs()
	tt := s.Translator.Translate(ctx, llm.LlmPrompt{Query: text, AvailableProbeIDs: probeIDList(s.Catalog)}, knownProbeIDs)
	tr.Append(transcript.Event{Kind: transcript.KindStageEnd, From: "translator", Detail: map[string]string{
		"intent": string(tt.Intent), "domain": string(tt.Domain),
	}})

	outcome := triage.Apply(tt, s.FallbackTemplate)
	if outcome.NeedsClarification {
		return s.finalize(ctx, t, tr, start, outcome.ClarificationText, scorer.Compute(scorer.Signals{
			TranslatorConfident:    false,
			ProbeCoverage:          false,
			AnswerGrounded:         false,
			NoInvention:            true,
			ClarificationNotNeeded: false,
		}), string(class), string(strategy), 0, false)
	}

	if strategy == router.StrategyRAGFirst && s.Docs != nil {
		if result, ok := s.answerFromKnowledge(ctx, text, tr); ok {
			return s.finalize(ctx, t, tr, start, result.answer, result.score, string(class), string(strategy), 0, false)
		}
	}

	probeIDs := outcome.Ticket.NeedsProbes
	if len(probeIDs) == 0 {
		probeIDs = ProbesForQuestion(text)
	}

	solver := &StaticSolver{Collected: &guard.Evidence{}}
	engine := &orchestrator.Engine{
		Decomposer:  &StaticDecomposer{ProbeIDs: probeIDs},
		Runner:      orchestrator.NewSubproblemRunner(NewProbeRunnerAdapter(s.Runner), s.maxConcurrent()),
		Solver:      solver,
		Synthesizer: StaticSynthesizer{},
		Logger:      s.logger(),
	}

	orchOutcome := engine.Run(ctx, text, nil, knownProbeIDs)
	if orchOutcome.WasEscalated {
		t.Transition(ticket.StatusEscalated)
		t.Transition(ticket.StatusInProgress)
	}
	t.Subproblems = orchOutcome.Subproblems
	for _, sp := range orchOutcome.Subproblems {
		for _, probeID := range sp.RequiredProbes {
			tr.Append(transcript.Event{Kind: transcript.KindProbeEnd, From: probeID, To: sp.ID})
		}
	}

	if s.Facts != nil {
		for _, probeID := range probeIDs {
			RecordObservations(ctx, s.Facts, *solver.Collected, probeID, s.logger())
		}
	}

	if orchOutcome.CannotAnswer {
		answer := "I cannot confirm an answer. Evidence is not available."
		return s.finalize(ctx, t, tr, start, answer, scorer.Compute(scorer.Signals{
			TranslatorConfident:    true,
			ProbeCoverage:          false,
			AnswerGrounded:         false,
			NoInvention:            true,
			ClarificationNotNeeded: true,
		}), string(class), string(strategy), len(probeIDs), orchOutcome.WasEscalated)
	}

	answer := orchOutcome.Final.Text
	report := guard.Run(answer, *solver.Collected, true)
	grounded := guard.CheckAnswerGrounded(answer, evidenceStdouts(orchOutcome.Subproblems))

	signals := scorer.Signals{
		TranslatorConfident:    true,
		ProbeCoverage:          orchOutcome.Final.Scores.EvidenceCoverage >= 100,
		AnswerGrounded:         grounded,
		NoInvention:            !report.InventionDetected,
		ClarificationNotNeeded: true,
	}
	score := scorer.Compute(signals)

	if time.Since(start) >= s.TicketDeadline && s.TicketDeadline > 0 {
		score = score.Downgrade(20)
		tr.Append(transcript.Event{Kind: transcript.KindStageEnd, From: "ticket", Detail: map[string]string{"outcome": "timeout"}})
	}

	return s.finalize(ctx, t, tr, start, answer, score, string(class), string(strategy), len(probeIDs), orchOutcome.WasEscalated)
}

type knowledgeAnswer struct {
	answer string
	score  scorer.Score
}

// answerFromKnowledge implements the RAG-first strategy (spec §4.3: "classes
// marked RAG-first must have a knowledge store lookup path"): the top
// keyword-search hit's body becomes the answer, scored fully grounded since
// it is a verbatim lookup rather than a generated claim. ok is false when no
// doc matches, letting the caller fall through to the probe-backed path.
func (s *Service) answerFromKnowledge(ctx context.Context, query string, tr *transcript.Transcript) (knowledgeAnswer, bool) {
	hits, err := s.Docs.Search(ctx, query, 1)
	if err != nil || len(hits) == 0 {
		return knowledgeAnswer{}, false
	}
	doc := hits[0]

	tr.Append(transcript.Event{Kind: transcript.KindStageEnd, From: "knowledge", Detail: map[string]string{"doc_id": doc.ID}})

	score := scorer.Compute(scorer.Signals{
		TranslatorConfident:    true,
		ProbeCoverage:          true,
		AnswerGrounded:         true,
		NoInvention:            true,
		ClarificationNotNeeded: true,
	})
	return knowledgeAnswer{answer: doc.Body, score: score}, true
}

func (s *Service) finalize(_ context.Context, t *ticket.Ticket, tr *transcript.Transcript, start time.Time, answer string, score scorer.Score, class, route string, probesCount int, escalated bool) Result {
	resolutionMs := uint64(time.Since(start).Milliseconds())
	t.Transcript = tr
	t.Reliability = &score
	t.Resolve(score, resolutionMs, s.ResolvedThreshold)

	if s.Tickets != nil {
		s.Tickets.Put(t)
	}

	if s.Telemetry != nil {
		_ = s.Telemetry.Write(telemetry.RequestRecord{
			Timestamp:    start.UTC(),
			QuestionHash: telemetry.HashQuestion(t.Query),
			QueryClass:   class,
			RouteUsed:    route,
			ProbesCount:  probesCount,
			Reliability:  score.Value,
			DurationMs:   resolutionMs,
			Team:         t.Team,
			Success:      score.Band != scorer.BandVeryLow,
		})
	}

	return Result{
		Answer:       answer,
		Reliability:  score,
		TranscriptID: t.ID,
		Ticket:       t,
	}
}

func (s *Service) maxConcurrent() int {
	if s.MaxConcurrent > 0 {
		return s.MaxConcurrent
	}
	return 4
}

func probeIDList(c *probe.Catalog) []string {
	ids := c.IDs()
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	return out
}

func evidenceStdouts(subs []orchestrator.Subproblem) []string {
	var out []string
	for _, sp := range subs {
		out = append(out, sp.Evidence...)
	}
	return out
}
