package agent

import (
	"bufio"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/alantheprice/recode/pkg/prompts"
	"github.com/alantheprice/recode/pkg/ui"
	"github.com/alantheprice/recode/pkg/utils"
)

// Loop drives the agent session: read a request, route it to a tool spec,
// dispatch it, repeat until exit.
type Loop struct {
	router     *Router
	dispatcher *Dispatcher
	logger     *utils.Logger
	input      io.Reader
}

func NewLoop(router *Router, dispatcher *Dispatcher, logger *utils.Logger) *Loop {
	return &Loop{
		router:     router,
		dispatcher: dispatcher,
		logger:     logger,
		input:      os.Stdin,
	}
}

// RunOnce routes and dispatches a single request. Used for one-shot
// invocations and for every line of the interactive loop.
func (l *Loop) RunOnce(request string) error {
	request = strings.TrimSpace(request)
	if request == "" {
		return nil
	}

	l.logger.Log(prompts.AgentRouting(utils.TruncateString(request, 200)))

	spec, err := l.router.RouteUserRequest(request)
	if err != nil {
		return err
	}

	if explanation := spec.Explanation(); explanation != "" {
		ui.Out().Print(prompts.AgentExplanation(explanation))
	}
	ui.Out().Print(prompts.AgentPlan(spec.Raw()) + "\n")

	return l.dispatcher.RunToolFromSpec(spec, request)
}

// Run reads requests until EOF or an exit command. The banner and prompt are
// only shown when stdin is a terminal, so piped input stays clean. Routing
// and tool errors are echoed and the loop keeps going.
func (l *Loop) Run() error {
	interactive := false
	if f, ok := l.input.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	if interactive {
		ui.Out().Print(prompts.AgentBanner() + "\n")
	}

	scanner := bufio.NewScanner(l.input)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if interactive {
			ui.Out().Print(prompts.AgentPrompt())
		}
		if !scanner.Scan() {
			ui.Out().Print("\n" + prompts.AgentExiting() + "\n")
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "exit", "quit":
			ui.Out().Print(prompts.AgentExiting() + "\n")
			return nil
		case "":
			continue
		}

		if err := l.RunOnce(line); err != nil {
			ui.Out().Print(prompts.AgentError(err) + "\n")
		}
	}
}
