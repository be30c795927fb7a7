package main

import (
	"context"
	"fmt"
	"strconv"

	"calcnerd/internal/engine"
	"calcnerd/internal/metrics"

	"github.com/spf13/cobra"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Show or change the memory register",
}

var memoryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored value",
	Args:  cobra.NoArgs,
	RunE:  showMemory,
}

var memoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset the register to 0",
	Args:  cobra.NoArgs,
	RunE:  clearMemory,
}

var memoryAddCmd = &cobra.Command{
	Use:   "add <n>",
	Short: "Add n to the register (M+)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adjustMemory("add", args[0])
	},
}

var memorySubCmd = &cobra.Command{
	Use:   "sub <n>",
	Short: "Subtract n from the register (M-)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return adjustMemory("sub", args[0])
	},
}

func init() {
	memoryCmd.AddCommand(memoryShowCmd)
	memoryCmd.AddCommand(memoryClearCmd)
	memoryCmd.AddCommand(memoryAddCmd)
	memoryCmd.AddCommand(memorySubCmd)
}

func showMemory(cmd *cobra.Command, args []string) error {
	sess, err := openSession(context.Background())
	if err != nil {
		return err
	}
	defer sess.close()

	fmt.Println(engine.FormatResult(sess.memory.Recall()))
	return nil
}

func clearMemory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	if err := sess.memory.Clear(ctx); err != nil {
		return err
	}
	sess.metrics.Count(metrics.KindMemory, "clear", "ok")
	fmt.Println("0")
	return nil
}

func adjustMemory(op, raw string) error {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", raw)
	}

	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	ok, err := applyMemory(ctx, sess, op, engine.Result(v))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("memory register cannot hold %q", raw)
	}
	fmt.Println(engine.FormatResult(sess.memory.Recall()))
	return nil
}

// applyMemory runs M+ ("add") or M- ("sub") with v and counts the outcome.
// A value without a number leaves the register untouched and is not counted.
func applyMemory(ctx context.Context, sess *session, op string, v engine.Value) (bool, error) {
	var ok bool
	var err error
	if op == "add" {
		ok, err = sess.memory.Add(ctx, v)
	} else {
		ok, err = sess.memory.Subtract(ctx, v)
	}
	switch {
	case err != nil:
		sess.metrics.Count(metrics.KindMemory, op, "error")
	case ok:
		sess.metrics.Count(metrics.KindMemory, op, "ok")
	}
	return ok, err
}
