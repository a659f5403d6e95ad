package main

import (
	"fmt"

	"github.com/hxrts/aura/budget"
	"github.com/hxrts/aura/capability"
	"github.com/hxrts/aura/consensus"
	"github.com/hxrts/aura/guard"
	"github.com/hxrts/aura/identity"
	"github.com/hxrts/aura/threshold"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func fastPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fast-path",
		Short: "Run the clean fast-path commit scenario (4 witnesses, k=3)",
		RunE: func(cmd *cobra.Command, args []string) error {
			witnesses := make([]identity.DeviceId, 4)
			for i := range witnesses {
				witnesses[i] = identity.DeviceFromSeed(byte(i + 1))
			}
			signer := threshold.NewBLSSigner()
			opHash := identity.HashFromSeed(0x01)
			id := identity.ConsensusFromHash(identity.HashFromSeed(0xc1))

			metrics, err := consensus.NewMetrics(prometheus.NewRegistry())
			if err != nil {
				return err
			}

			inst := consensus.NewInstance(id, identity.Hash32{}, witnesses, 3, signer, nil, 2_000, 10_000)
			if err := inst.Execute(0); err != nil {
				return err
			}
			for i, w := range witnesses {
				msg := consensus.ShareMessage(inst.ID, inst.PreStateHash, opHash)
				share, err := signer.ProposeShare(i, []byte("secret"), msg)
				if err != nil {
					return err
				}
				if err := inst.SubmitShare(w, i, opHash, share.Bytes, 10); err != nil {
					return err
				}
			}
			metrics.Observe(inst)
			fmt.Printf("phase=%s committed_op=%s equivocators=%d\n", inst.Phase, inst.CommittedOpHash, len(inst.Equivocators()))
			return nil
		},
	}
}

func equivocationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "equivocation",
		Short: "Run the absorbed-equivocation scenario (7 witnesses, k=5)",
		RunE: func(cmd *cobra.Command, args []string) error {
			witnesses := make([]identity.DeviceId, 7)
			for i := range witnesses {
				witnesses[i] = identity.DeviceFromSeed(byte(i + 1))
			}
			signer := threshold.NewBLSSigner()
			propA := identity.HashFromSeed(0xA)
			propB := identity.HashFromSeed(0xB)
			id := identity.ConsensusFromHash(identity.HashFromSeed(0xc2))

			metrics, err := consensus.NewMetrics(prometheus.NewRegistry())
			if err != nil {
				return err
			}

			inst := consensus.NewInstance(id, identity.Hash32{}, witnesses, 5, signer, nil, 2_000, 10_000)
			if err := inst.Execute(0); err != nil {
				return err
			}

			equivocator := witnesses[1]
			for _, prop := range []identity.Hash32{propA, propB} {
				msg := consensus.ShareMessage(inst.ID, inst.PreStateHash, prop)
				share, err := signer.ProposeShare(1, []byte("secret"), msg)
				if err != nil {
					return err
				}
				if err := inst.SubmitShare(equivocator, 1, prop, share.Bytes, 10); err != nil {
					return err
				}
			}
			for i, w := range witnesses {
				if w == equivocator {
					continue
				}
				msg := consensus.ShareMessage(inst.ID, inst.PreStateHash, propA)
				share, err := signer.ProposeShare(i, []byte("secret"), msg)
				if err != nil {
					return err
				}
				if err := inst.SubmitShare(w, i, propA, share.Bytes, 10); err != nil {
					return err
				}
			}
			metrics.Observe(inst)
			fmt.Printf("phase=%s committed_op=%s equivocators=%d\n", inst.Phase, inst.CommittedOpHash, len(inst.Equivocators()))
			return nil
		},
	}
}

func budgetRefusalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "budget-refusal",
		Short: "Run the budget-refusal scenario (flow limit=100, spent=80, cost=50)",
		RunE: func(cmd *cobra.Command, args []string) error {
			metrics, err := guard.NewMetrics(prometheus.NewRegistry())
			if err != nil {
				return err
			}

			op := capability.Operation("send.message")
			token := capability.Token{
				Subject:     identity.AuthorityFromSeed(1),
				Permissions: map[capability.Operation]bool{op: true},
			}
			snap := guard.GuardSnapshot{Token: token, FlowLimit: 100}
			ann := guard.Annotation{Operation: op, FlowCost: 50}
			flow := &budget.Counter{Spent: 80}

			out, err := guard.Evaluate(snap, ann, capability.StaticOracle{}, flow, &budget.Counter{}, nil, metrics)
			fmt.Printf("command=%s spent=%d err=%v\n", out.Kind, flow.Spent, err)
			return nil
		},
	}
}
