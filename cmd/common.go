package cmd

import (
	"github.com/alantheprice/recode/pkg/agent"
	"github.com/alantheprice/recode/pkg/config"
	"github.com/alantheprice/recode/pkg/llm"
	"github.com/alantheprice/recode/pkg/utils"
)

// appContext holds the config, logger and dispatcher shared by the tool
// commands. Each command builds one at run time so the --skip-prompt flag is
// already parsed.
type appContext struct {
	cfg        *config.Config
	logger     *utils.Logger
	dispatcher *agent.Dispatcher
}

func newAppContext() (*appContext, error) {
	cfg, err := config.LoadOrInitConfig(skipPrompt)
	if err != nil {
		return nil, err
	}
	logger := utils.GetLogger(cfg.SkipPrompt)
	return &appContext{
		cfg:        cfg,
		logger:     logger,
		dispatcher: agent.NewDispatcher(cfg, logger),
	}, nil
}

// loop builds the interactive agent loop on top of the shared dispatcher.
func (a *appContext) loop() *agent.Loop {
	router := agent.NewRouter(llm.NewClient(a.cfg, a.cfg.AgentModel))
	return agent.NewLoop(router, a.dispatcher, a.logger)
}
