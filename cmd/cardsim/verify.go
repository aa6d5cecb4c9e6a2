package main

import (
	"github.com/spf13/cobra"

	"github.com/MJE43/cardsim/internal/api"
	"github.com/MJE43/cardsim/internal/engine"
	"github.com/MJE43/cardsim/internal/sim"
	"github.com/MJE43/cardsim/internal/store"
)

var verifyFlags struct {
	seeds engine.Seeds
	nonce uint64
	steps string
	save  bool
	name  string
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Print the seeded outcome of numeric decisions",
	Long: `Replay numeric decisions over the HMAC-SHA256 stream of a seed pair
and nonce. The same input always prints the same outcomes.`,
	Example: `  cardsim verify --server-seed abc --client-seed xyz --nonce 1 --steps CoinFlip,Number:1:6`,
	Args:    cobra.NoArgs,
	RunE:    runVerify,
}

func runVerify(cmd *cobra.Command, _ []string) error {
	steps, err := parseSteps(verifyFlags.steps)
	if err != nil {
		return err
	}
	v, err := sim.Verify(verifyFlags.seeds, verifyFlags.nonce, steps)
	if err != nil {
		return err
	}

	resp := api.VerifyResponse{
		ServerSeedHash: engine.HashSeed(verifyFlags.seeds.Server),
		Nonce:          verifyFlags.nonce,
		Outcomes:       v.Outcomes,
		Transcript:     v.Transcript,
		Cursor:         v.Cursor,
		EngineVersion:  api.EngineVersion,
	}

	if verifyFlags.save {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		resp.SessionID, err = st.SaveTranscript(cmd.Context(), &store.Session{
			Name:           verifyFlags.name,
			Provider:       "random",
			ServerSeedHash: resp.ServerSeedHash,
			ClientSeed:     verifyFlags.seeds.Client,
			Nonce:          verifyFlags.nonce,
		}, v.Transcript)
		if err != nil {
			return err
		}
	}

	return printJSON(cmd.OutOrStdout(), resp)
}

func init() {
	f := verifyCmd.Flags()
	f.StringVar(&verifyFlags.seeds.Server, "server-seed", "", "server seed (required)")
	f.StringVar(&verifyFlags.seeds.Client, "client-seed", "", "client seed")
	f.Uint64Var(&verifyFlags.nonce, "nonce", 0, "nonce")
	f.StringVar(&verifyFlags.steps, "steps", "", "comma separated steps: CoinFlip, RandomDamage:<max>, Number:<lo>:<hi>, Chance[:record]")
	f.BoolVar(&verifyFlags.save, "save", false, "store the transcript as a session")
	f.StringVar(&verifyFlags.name, "name", "", "session name when saving")
	_ = verifyCmd.MarkFlagRequired("server-seed")
	_ = verifyCmd.MarkFlagRequired("steps")
}
