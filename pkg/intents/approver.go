package intents

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"nexus-swap/pkg/types"
)

// Approver decides on requests raised by the SDK. Implementations must
// resolve every request, either synchronously or later.
type Approver interface {
	OnAllowance(ctx context.Context, req *AllowanceRequest)
	OnIntent(ctx context.Context, req *IntentRequest)
}

// AutoApprover grants the minimum allowance for every source and confirms
// every intent without user interaction.
type AutoApprover struct {
	Logger *zap.Logger
}

func (a AutoApprover) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

func (a AutoApprover) OnAllowance(ctx context.Context, req *AllowanceRequest) {
	a.logger().Warn("auto-approving allowance request",
		zap.String("request_id", req.ID),
		zap.Int("sources", len(req.Sources)))

	req.Allow(minLevels(len(req.Sources)))
}

func (a AutoApprover) OnIntent(ctx context.Context, req *IntentRequest) {
	a.logger().Warn("auto-approving intent",
		zap.String("request_id", req.ID),
		zap.String("total", req.Total),
		zap.String("destination", req.Destination.Chain+":"+req.Destination.Recipient))

	req.Allow()
}

func minLevels(n int) []AllowanceLevel {
	levels := make([]AllowanceLevel, n)
	for i := range levels {
		levels[i] = AllowanceMin
	}
	return levels
}

// PromptApprover asks on Out and reads a y/N answer from In.
type PromptApprover struct {
	In  io.Reader
	Out io.Writer

	scanner *bufio.Scanner
}

func NewPromptApprover(in io.Reader, out io.Writer) *PromptApprover {
	return &PromptApprover{In: in, Out: out, scanner: bufio.NewScanner(in)}
}

func (p *PromptApprover) OnAllowance(ctx context.Context, req *AllowanceRequest) {
	fmt.Fprintln(p.Out, "\nToken approval required:")
	for _, src := range req.Sources {
		fmt.Fprintf(p.Out, "  %s on %s: spender %s needs %s (current %s)\n",
			src.Token, src.Chain, src.Spender.Hex(),
			types.FromBaseUnits(src.Required, src.Decimals),
			types.FromBaseUnits(src.Current, src.Decimals))
	}

	if p.confirm("Approve the minimum required allowance?") {
		req.Allow(minLevels(len(req.Sources)))
		return
	}
	req.Deny("declined by user")
}

func (p *PromptApprover) OnIntent(ctx context.Context, req *IntentRequest) {
	fmt.Fprintln(p.Out, "\nConfirm transfer:")
	for _, src := range req.Sources {
		fmt.Fprintf(p.Out, "  From:        %s %s on %s\n", src.Amount, src.Token, src.Chain)
	}
	fmt.Fprintf(p.Out, "  Total:       %s\n", req.Total)
	if req.Fees != "" {
		fmt.Fprintf(p.Out, "  Fees:        $%s\n", req.Fees)
	}
	fmt.Fprintf(p.Out, "  Destination: %s on %s\n", req.Destination.Recipient, req.Destination.Chain)

	if p.confirm("Proceed?") {
		req.Allow()
		return
	}
	req.Deny("declined by user")
}

func (p *PromptApprover) confirm(question string) bool {
	if p.scanner == nil {
		p.scanner = bufio.NewScanner(p.In)
	}

	fmt.Fprintf(p.Out, "%s [y/N]: ", question)
	if !p.scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(p.scanner.Text()))
	return answer == "y" || answer == "yes"
}
