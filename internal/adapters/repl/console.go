package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mikey/gmail-filter-agent/internal/core"
	"github.com/mikey/gmail-filter-agent/internal/tools"
	"go.uber.org/zap"
)

// Console is an interactive terminal surface for the agent. It reads user
// requests line by line, relays them to the agent session, and executes the
// tool calls the agent asks for until the agent answers in plain text.
type Console struct {
	agent         core.AgentClient
	executor      *tools.Executor
	logger        *zap.Logger
	maxToolRounds int

	in  io.Reader
	out io.Writer

	cancel context.CancelFunc
	done   chan struct{}
}

// NewConsole creates a new interactive console surface.
func NewConsole(agent core.AgentClient, executor *tools.Executor, maxToolRounds int, logger *zap.Logger) *Console {
	return &Console{
		agent:         agent,
		executor:      executor,
		logger:        logger,
		maxToolRounds: maxToolRounds,
		in:            os.Stdin,
		out:           os.Stdout,
		done:          make(chan struct{}),
	}
}

// Start begins the interactive loop in a background goroutine.
func (c *Console) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	session, err := c.agent.StartSession(ctx)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to start agent session: %w", err)
	}

	go c.loop(ctx, session)
	return nil
}

// Stop cancels any in-flight agent exchange.
func (c *Console) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

// Done is closed when the user ends the session.
func (c *Console) Done() <-chan struct{} {
	return c.done
}

func (c *Console) loop(ctx context.Context, session core.AgentSession) {
	defer close(c.done)

	fmt.Fprintln(c.out, "Gmail filter agent. Describe the emails you are looking for, or type 'quit' to exit.")
	scanner := bufio.NewScanner(c.in)

	for {
		fmt.Fprint(c.out, "\n> ")
		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" {
			fmt.Fprintln(c.out, "Goodbye.")
			return
		}

		if err := c.handle(ctx, session, input); err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("Agent exchange failed", zap.Error(err))
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
	}
}

// handle runs one user turn: send the input, then keep executing tool calls
// and returning their results until the agent replies without any, or the
// round limit is hit.
func (c *Console) handle(ctx context.Context, session core.AgentSession, input string) error {
	reply, err := session.Send(ctx, input)
	if err != nil {
		return err
	}

	for round := 0; len(reply.ToolCalls) > 0; round++ {
		if round >= c.maxToolRounds {
			c.logger.Warn("Tool round limit reached", zap.Int("rounds", round))
			fmt.Fprintln(c.out, "Stopping: the agent requested too many tool rounds.")
			return nil
		}

		results := make([]core.ToolResult, len(reply.ToolCalls))
		for i, call := range reply.ToolCalls {
			fmt.Fprintf(c.out, "[running %s]\n", call.Name)
			results[i] = c.executor.Execute(ctx, call)
		}

		reply, err = session.SendToolResults(ctx, results)
		if err != nil {
			return err
		}
	}

	if reply.Text != "" {
		fmt.Fprintln(c.out, reply.Text)
	}
	return nil
}
