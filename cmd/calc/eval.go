package main

import (
	"context"
	"fmt"
	"strings"

	"calcnerd/internal/engine"
	"calcnerd/internal/metrics"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var evalCmd = &cobra.Command{
	Use:   "eval <tokens...>",
	Short: "Feed key presses to the calculator and print the display",
	Long: `Feeds tokens to the calculator as if they were typed on the keypad.

Tokens are numbers, the operators + - x * / and the unary keys
neg, %, sqrt, sq and inv. "=" computes, "c" clears, "del" deletes the last
digit, and m+, m-, mr and mc drive the memory register.

  calc eval 3 + 4 x 2 =
  calc eval 9 sqrt
  calc eval -- 10 - 4 =

Every completed computation is recorded in history. The command exits
non-zero when the calculator ends in the Error state.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	e := engine.New()
	var failure error
	for _, tok := range splitTokens(args) {
		out, err := evalToken(ctx, sess, e, tok)
		if err != nil {
			return err
		}
		if out.Failed() {
			failure = out.Err()
			logger.Debug("Token failed", zap.String("token", tok), zap.Stringer("status", out.Status))
		}
	}

	current, previous := e.Snapshot().Display()
	if previous != "" {
		fmt.Println(previous)
	}
	fmt.Println(current)

	if e.Current().IsError() {
		if failure == nil {
			failure = engine.ErrOverflow
		}
		return fmt.Errorf("calculation failed: %w", failure)
	}
	return nil
}

// splitTokens accepts both "3 + 4" as one argument and as three.
func splitTokens(args []string) []string {
	var tokens []string
	for _, a := range args {
		tokens = append(tokens, strings.Fields(a)...)
	}
	return tokens
}

// evalToken applies one token. The returned outcome is that of the engine
// call, or a no-op for tokens that do not compute.
func evalToken(ctx context.Context, sess *session, e *engine.Engine, tok string) (engine.Outcome, error) {
	noop := engine.Outcome{Status: engine.StatusNoOp}

	switch strings.ToLower(tok) {
	case "=", "enter":
		op, _ := e.Operation()
		return apply(ctx, sess, metrics.KindBinary, string(op), e.Compute())
	case "c", "clear", "ac":
		e.Clear()
		return noop, nil
	case "del", "back", "backspace":
		e.Delete()
		return noop, nil
	case "mr":
		e.Recall(sess.memory.Recall())
		sess.metrics.Count(metrics.KindMemory, "recall", "ok")
		return noop, nil
	case "mc":
		if err := sess.memory.Clear(ctx); err != nil {
			return noop, err
		}
		sess.metrics.Count(metrics.KindMemory, "clear", "ok")
		return noop, nil
	case "m+":
		_, err := applyMemory(ctx, sess, "add", e.Current())
		return noop, err
	case "m-":
		_, err := applyMemory(ctx, sess, "sub", e.Current())
		return noop, err
	}

	if op, err := engine.ParseOp(tok); err == nil {
		return apply(ctx, sess, metrics.KindBinary, string(op), e.ChooseOperation(op))
	}
	if action, err := engine.ParseUnaryAction(tok); err == nil {
		return apply(ctx, sess, metrics.KindUnary, string(action), e.ApplyUnary(action))
	}
	if isNumberToken(tok) {
		for _, r := range tok {
			e.AppendDigit(string(r))
		}
		return noop, nil
	}
	return noop, fmt.Errorf("unknown token %q", tok)
}

func isNumberToken(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r != '.' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// apply records metrics and, for a successful computation, history.
func apply(ctx context.Context, sess *session, kind, op string, out engine.Outcome) (engine.Outcome, error) {
	sess.metrics.Observe(kind, op, out)
	if _, err := sess.recorder.Apply(ctx, out); err != nil {
		return out, err
	}
	return out, nil
}
