package chain_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tailored-agentic-units/journal/chain"
	"github.com/tailored-agentic-units/journal/config"
	"github.com/tailored-agentic-units/journal/observability"
)

type captureObserver struct {
	events []observability.Event
}

func (o *captureObserver) OnEvent(ctx context.Context, event observability.Event) {
	o.events = append(o.events, event)
}

func newCaptureObserver() *captureObserver {
	return &captureObserver{events: []observability.Event{}}
}

func appendStep(item string) chain.Link[string] {
	return chain.Named(item, func(ctx context.Context, current string) (string, error) {
		return current + "->" + item, nil
	})
}

func appendSteps(items ...string) []chain.Link[string] {
	links := make([]chain.Link[string], 0, len(items))
	for _, item := range items {
		links = append(links, appendStep(item))
	}
	return links
}

func TestRun_BasicExecution(t *testing.T) {
	ctx := context.Background()
	cfg := config.ChainConfig{Observer: "noop"}

	result, err := chain.Run(ctx, cfg, "start", appendSteps("a", "b", "c"), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := "start->a->b->c"
	if result.Final != expected {
		t.Errorf("Expected final value %q, got %q", expected, result.Final)
	}

	if result.Steps != 3 {
		t.Errorf("Expected 3 steps, got %d", result.Steps)
	}

	if len(result.Intermediate) != 0 {
		t.Errorf("Expected no intermediate values, got %d", len(result.Intermediate))
	}
}

func TestRun_EmptyChain(t *testing.T) {
	result, err := chain.Run(context.Background(), config.DefaultChainConfig(), "initial", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if result.Final != "initial" {
		t.Errorf("Expected final value %q, got %q", "initial", result.Final)
	}

	if result.Steps != 0 {
		t.Errorf("Expected 0 steps, got %d", result.Steps)
	}
}

func TestRun_ErrorShortCircuits(t *testing.T) {
	ctx := context.Background()
	expectedError := errors.New("create failed")

	var ran []string
	record := func(name string, fail bool) chain.Link[string] {
		return chain.Named(name, func(ctx context.Context, current string) (string, error) {
			ran = append(ran, name)
			if fail {
				return current, expectedError
			}
			return current + "->" + name, nil
		})
	}

	links := []chain.Link[string]{
		record("a", false),
		record("b", false),
		record("c", true),
		record("d", false),
	}

	result, err := chain.Run(ctx, config.ChainConfig{}, "start", links, nil)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var chainErr *chain.ChainError[string]
	if !errors.As(err, &chainErr) {
		t.Fatalf("Expected ChainError, got %T", err)
	}

	if chainErr.StepIndex != 2 {
		t.Errorf("Expected error at step 2, got %d", chainErr.StepIndex)
	}

	if chainErr.StepName != "c" {
		t.Errorf("Expected error step name 'c', got %q", chainErr.StepName)
	}

	if chainErr.State != "start->a->b" {
		t.Errorf("Expected state %q, got %q", "start->a->b", chainErr.State)
	}

	if !errors.Is(err, expectedError) {
		t.Error("Expected error to unwrap to expectedError")
	}

	if strings.Join(ran, ",") != "a,b,c" {
		t.Errorf("Expected steps a,b,c to run, got %v", ran)
	}

	if result.Steps != 0 {
		t.Errorf("Expected 0 steps on error, got %d", result.Steps)
	}

	if result.Final != "start" {
		t.Errorf("Expected initial value on error, got %q", result.Final)
	}
}

func TestRun_StrictOrdering(t *testing.T) {
	var running atomic.Int32
	var overlap atomic.Bool

	step := func(ctx context.Context, n int) (int, error) {
		if running.Add(1) > 1 {
			overlap.Store(true)
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return n + 1, nil
	}

	links := make([]chain.Link[int], 5)
	for i := range links {
		links[i] = chain.Named(fmt.Sprintf("step-%d", i), step)
	}

	result, err := chain.Run(context.Background(), config.ChainConfig{}, 0, links, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if overlap.Load() {
		t.Error("Steps overlapped; expected strictly sequential execution")
	}
	if result.Final != 5 {
		t.Errorf("Expected 5, got %d", result.Final)
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	processedCount := 0

	step := func(name string) chain.Link[string] {
		return chain.Named(name, func(ctx context.Context, current string) (string, error) {
			processedCount++
			if name == "b" {
				cancel()
			}
			return current + "->" + name, nil
		})
	}

	links := []chain.Link[string]{step("a"), step("b"), step("c"), step("d")}

	_, err := chain.Run(ctx, config.ChainConfig{}, "start", links, nil)
	if err == nil {
		t.Fatal("Expected cancellation error, got nil")
	}

	var chainErr *chain.ChainError[string]
	if !errors.As(err, &chainErr) {
		t.Fatalf("Expected ChainError, got %T", err)
	}

	if !errors.Is(err, context.Canceled) {
		t.Error("Expected context.Canceled in error chain")
	}

	if chainErr.StepName != "c" {
		t.Errorf("Expected cancellation before step 'c', got %q", chainErr.StepName)
	}

	if processedCount != 2 {
		t.Errorf("Expected 2 steps processed before cancellation, got %d", processedCount)
	}
}

func TestRun_ProgressCallback(t *testing.T) {
	type call struct {
		completed int
		total     int
		value     string
	}
	var calls []call

	progress := func(completed, total int, current string) {
		calls = append(calls, call{completed, total, current})
	}

	_, err := chain.Run(context.Background(), config.ChainConfig{}, "start", appendSteps("a", "b", "c"), progress)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []call{
		{1, 3, "start->a"},
		{2, 3, "start->a->b"},
		{3, 3, "start->a->b->c"},
	}

	if len(calls) != len(expected) {
		t.Fatalf("Expected %d progress calls, got %d", len(expected), len(calls))
	}

	for i, c := range calls {
		if c != expected[i] {
			t.Errorf("Call %d: expected %+v, got %+v", i, expected[i], c)
		}
	}
}

func TestRun_IntermediateStateCapture(t *testing.T) {
	cfg := config.ChainConfig{
		CaptureIntermediateStates: true,
		Observer:                  "noop",
	}

	result, err := chain.Run(context.Background(), cfg, "start", appendSteps("a", "b", "c"), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []string{
		"start",
		"start->a",
		"start->a->b",
		"start->a->b->c",
	}

	if len(result.Intermediate) != len(expected) {
		t.Fatalf("Expected %d intermediate values, got %d", len(expected), len(result.Intermediate))
	}

	for i, value := range result.Intermediate {
		if value != expected[i] {
			t.Errorf("Intermediate[%d]: expected %q, got %q", i, expected[i], value)
		}
	}
}

func TestRun_ObserverIntegration(t *testing.T) {
	observer := newCaptureObserver()
	observability.RegisterObserver("chain-test-observer", observer)

	cfg := config.ChainConfig{Observer: "chain-test-observer"}

	_, err := chain.Run(context.Background(), cfg, "start", appendSteps("a", "b"), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expectedEvents := []observability.EventType{
		chain.EventChainStart,
		chain.EventStepStart,
		chain.EventStepComplete,
		chain.EventStepStart,
		chain.EventStepComplete,
		chain.EventChainComplete,
	}

	if len(observer.events) != len(expectedEvents) {
		t.Fatalf("Expected %d events, got %d", len(expectedEvents), len(observer.events))
	}

	for i, event := range observer.events {
		if event.Type != expectedEvents[i] {
			t.Errorf("Event %d: expected type %v, got %v", i, expectedEvents[i], event.Type)
		}
		if event.Source != "chain.Run" {
			t.Errorf("Event %d: expected source 'chain.Run', got %q", i, event.Source)
		}
	}

	if name := observer.events[1].Data["step_name"]; name != "a" {
		t.Errorf("Expected first step_name 'a', got %v", name)
	}
}

func TestRunObserved_ErrorEvents(t *testing.T) {
	observer := newCaptureObserver()

	links := []chain.Link[string]{
		appendStep("a"),
		chain.Named("b", func(ctx context.Context, current string) (string, error) {
			return current, errors.New("fail")
		}),
	}

	_, err := chain.RunObserved(context.Background(), observer, config.ChainConfig{}, "start", links, nil)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	if len(observer.events) != 6 {
		t.Fatalf("Expected 6 events, got %d", len(observer.events))
	}

	stepComplete := observer.events[4]
	if errorFlag, ok := stepComplete.Data["error"].(bool); !ok || !errorFlag {
		t.Error("Expected EventStepComplete to have error=true in Data")
	}

	chainComplete := observer.events[5]
	if chainComplete.Level != observability.LevelWarning {
		t.Errorf("Expected failed chain completion at warning level, got %v", chainComplete.Level)
	}
	if errorFlag, ok := chainComplete.Data["error"].(bool); !ok || !errorFlag {
		t.Error("Expected EventChainComplete to have error=true in Data")
	}
}

func TestRun_InvalidObserver(t *testing.T) {
	cfg := config.ChainConfig{Observer: "nonexistent"}

	_, err := chain.Run(context.Background(), cfg, "start", appendSteps("a"), nil)
	if err == nil {
		t.Fatal("Expected observer resolution error, got nil")
	}

	if !strings.HasPrefix(err.Error(), "failed to resolve observer:") {
		t.Errorf("Expected observer resolution error, got: %v", err)
	}
}

func TestWhen(t *testing.T) {
	inc := func(ctx context.Context, n int) (int, error) { return n + 1, nil }
	even := func(n int) bool { return n%2 == 0 }

	links := []chain.Link[int]{
		chain.Named("inc-if-even", chain.When(even, inc)),
		chain.Named("inc-if-even-again", chain.When(even, inc)),
	}

	result, err := chain.Run(context.Background(), config.ChainConfig{}, 0, links, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if result.Final != 1 {
		t.Errorf("Expected 1 (second step skipped), got %d", result.Final)
	}
}

func TestRun_GenericTypes(t *testing.T) {
	type ledger struct {
		Sum int
	}

	links := []chain.Link[ledger]{}
	for _, v := range []int{1, 2, 3} {
		links = append(links, chain.Named("add", func(ctx context.Context, l ledger) (ledger, error) {
			return ledger{Sum: l.Sum + v}, nil
		}))
	}

	result, err := chain.Run(context.Background(), config.ChainConfig{}, ledger{}, links, nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if result.Final.Sum != 6 {
		t.Errorf("Expected sum 6, got %d", result.Final.Sum)
	}
}
