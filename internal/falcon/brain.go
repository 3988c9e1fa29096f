// Package falcon turns parsed chat commands into store writes and replies.
//
// The Executor runs one command against the record store and the points
// ledger. The Brain is the single entry point for a message: it parses,
// executes and formats, and is the only place errors become reply text.
package falcon

import (
	"context"
	"fmt"

	"modofoco/internal/logging"
	"modofoco/internal/perception"
)

// CommandExecutor runs a parsed command. *Executor implements it.
type CommandExecutor interface {
	Execute(ctx context.Context, userID string, cmd perception.Command) (ExecutionResult, error)
}

// Reply is the answer to one message.
type Reply struct {
	Text            string `json:"text"`
	ActionPerformed bool   `json:"action_performed"`
	PointsGained    int    `json:"points_gained"`
}

// Brain processes messages for one user. It keeps no state between calls.
type Brain struct {
	userID   string
	parser   *perception.Parser
	executor CommandExecutor
}

// NewBrain creates a brain for userID. A nil parser uses the default
// pattern table.
func NewBrain(userID string, parser *perception.Parser, executor CommandExecutor) *Brain {
	if parser == nil {
		parser = perception.NewParser(nil)
	}
	return &Brain{userID: userID, parser: parser, executor: executor}
}

// UserID returns the user this brain acts for.
func (b *Brain) UserID() string {
	return b.userID
}

// ProcessMessage parses raw and executes it. It never returns an error:
// unknown input gets the help reply, and a failed execution gets the
// generic failure reply with no action and no points.
func (b *Brain) ProcessMessage(ctx context.Context, raw string) (reply Reply) {
	cmd := b.parser.Parse(raw)
	logging.Audit(logging.AuditEvent{Type: logging.AuditCommandParsed, UserID: b.userID, Intent: string(cmd.Intent)})

	if cmd.Unknown() {
		logging.PerceptionDebug("unrecognized message from %s: %q", b.userID, raw)
		return Reply{Text: HelpReply}
	}

	defer func() {
		if r := recover(); r != nil {
			b.fail(cmd, fmt.Errorf("panic: %v", r))
			reply = Reply{Text: FailureReply}
		}
	}()

	res, err := b.executor.Execute(ctx, b.userID, cmd)
	if err != nil {
		b.fail(cmd, err)
		return Reply{Text: FailureReply}
	}

	logging.Audit(logging.AuditEvent{
		Type:   logging.AuditCommandExecuted,
		UserID: b.userID,
		Intent: string(cmd.Intent),
		Points: res.PointsAwarded,
	})
	points := res.PointsAwarded
	if !res.SideEffectPerformed {
		points = 0
	}
	return Reply{
		Text:            res.ReplyText + pointsSuffix(points),
		ActionPerformed: res.SideEffectPerformed,
		PointsGained:    points,
	}
}

func (b *Brain) fail(cmd perception.Command, err error) {
	partial := IsPartialWrite(err)
	logging.Get(logging.CategoryFalcon).Error("command %s failed for user %s (partial=%v): %v", cmd.Intent, b.userID, partial, err)
	logging.Audit(logging.AuditEvent{
		Type:    logging.AuditCommandFailed,
		UserID:  b.userID,
		Intent:  string(cmd.Intent),
		Partial: partial,
		Err:     err,
	})
}
