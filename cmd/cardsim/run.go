package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/MJE43/cardsim/internal/decision"
	"github.com/MJE43/cardsim/internal/engine"
	"github.com/MJE43/cardsim/internal/scripting"
	"github.com/MJE43/cardsim/internal/sim"
	"github.com/MJE43/cardsim/internal/store"
)

var runFlags struct {
	script string
	seeds  engine.Seeds
	nonce  uint64
	steps  string
	save   bool
	name   string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Answer decisions with a script and record them",
	Long: `Run numeric decisions through a simulation. With --script the answers
come from JavaScript functions named after each operation (coinFlip,
randomDamage, number); undefined functions fall back to a random provider,
seeded when --server-seed is set. With --save every decision is streamed
to the database as it is made.`,
	Example: `  cardsim run --script strategy.js --server-seed abc --steps CoinFlip,Number:1:6 --save`,
	Args:    cobra.NoArgs,
	RunE:    runRun,
}

type runResult struct {
	SimulationID string               `json:"simulationId"`
	Provider     string               `json:"provider"`
	Outcomes     []int                `json:"outcomes"`
	Transcript   decision.Transcript  `json:"transcript"`
	SessionID    string               `json:"sessionId,omitempty"`
	ScriptLogs   []scripting.LogEntry `json:"scriptLogs,omitempty"`
}

func runRun(cmd *cobra.Command, _ []string) (err error) {
	ctx := cmd.Context()
	steps, err := parseSteps(runFlags.steps)
	if err != nil {
		return err
	}

	var src engine.Source = engine.NewEntropySource()
	if runFlags.seeds.Server != "" {
		src = engine.NewSeededSource(runFlags.seeds, runFlags.nonce)
	}
	var provider decision.Provider = decision.NewRandom(src)

	var script *scripting.Provider
	if runFlags.script != "" {
		code, err := os.ReadFile(runFlags.script)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		script, err = scripting.New(string(code),
			scripting.WithFallback(provider),
			scripting.WithTimeout(cfg.ScriptTimeout),
			scripting.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		provider = script
	}

	opts := []sim.Option{sim.WithProvider(provider), sim.WithLogger(logger)}
	res := runResult{Provider: sim.ProviderName(provider)}

	if runFlags.save {
		st, openErr := openStore(ctx)
		if openErr != nil {
			return openErr
		}
		defer st.Close()

		sess := &store.Session{
			Name:       runFlags.name,
			Provider:   res.Provider,
			ClientSeed: runFlags.seeds.Client,
			Nonce:      runFlags.nonce,
		}
		if runFlags.seeds.Server != "" {
			sess.ServerSeedHash = engine.HashSeed(runFlags.seeds.Server)
		}
		if res.SessionID, err = st.CreateSession(ctx, sess); err != nil {
			return err
		}

		rec := store.NewRecorder(st, res.SessionID, cfg.FlushSize)
		opts = append(opts, sim.WithHook(rec.Record))
		defer func() {
			final := store.StateFinished
			flushErr := rec.Flush()
			if err != nil || flushErr != nil {
				final = store.StateFailed
			}
			err = multierr.Combine(err, flushErr,
				st.EndSession(ctx, res.SessionID, final, len(res.Transcript)))
			if err == nil {
				err = printJSON(cmd.OutOrStdout(), res)
			}
		}()
	}

	s := sim.New(opts...)
	res.SimulationID = s.ID().String()
	for i, step := range steps {
		v, err := s.Apply(step)
		if err != nil {
			logger.Warn("run stopped", zap.Int("step", i), zap.Error(err))
			res.Transcript = s.Transcript()
			return fmt.Errorf("step %d: %w", i, err)
		}
		res.Outcomes = append(res.Outcomes, v)
	}
	res.Transcript = s.Transcript()
	if script != nil {
		res.ScriptLogs = script.Logs()
	}

	if runFlags.save {
		return nil
	}
	return printJSON(cmd.OutOrStdout(), res)
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.script, "script", "", "JavaScript decision script")
	f.StringVar(&runFlags.seeds.Server, "server-seed", "", "server seed for the fallback provider")
	f.StringVar(&runFlags.seeds.Client, "client-seed", "", "client seed")
	f.Uint64Var(&runFlags.nonce, "nonce", 0, "nonce")
	f.StringVar(&runFlags.steps, "steps", "", "comma separated steps: CoinFlip, RandomDamage:<max>, Number:<lo>:<hi>, Chance[:record]")
	f.BoolVar(&runFlags.save, "save", false, "stream decisions to the database")
	f.StringVar(&runFlags.name, "name", "", "session name when saving")
	_ = runCmd.MarkFlagRequired("steps")
}
