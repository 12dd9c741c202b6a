package main

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/g-m-twostay/ostree/Trees"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newMeasureCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "measure",
		Short: "insert random permutations and report the shape of the trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMeasure(cmd, v)
		},
	}
	cmd.Flags().Int("size", 100000, "size of the largest tree")
	cmd.Flags().Int("steps", 10, "number of trees, evenly spaced up to --size")
	cmd.Flags().Int64("seed", 0, "seed of the permutations")
	cmd.Flags().Bool("bench", false, "time insertion with testing.Benchmark instead of a single run")
	return cmd
}

type measurement struct {
	size, height, blackHeight int
	bound                     float64
	released                  uint32
	perKey                    time.Duration
}

func measure(keys []int, bench bool) (m measurement, err error) {
	m.size = len(keys)
	tree := Trees.New[int, uint32](uint32(len(keys)))
	start := time.Now()
	for _, k := range keys {
		tree.Insert(k)
	}
	elapsed := time.Since(start)
	if err := tree.Verify(); err != nil {
		return m, errors.Wrapf(err, "tree of %d keys", len(keys))
	}
	m.height, m.blackHeight = tree.Height(), tree.BlackHeight()
	m.bound = 2 * math.Log2(float64(len(keys)+1))
	if m.released = tree.Dispose(); int(m.released) != len(keys) {
		return m, errors.Errorf("released %d of %d nodes", m.released, len(keys))
	}

	if bench {
		br := testing.Benchmark(func(b *testing.B) {
			for range b.N {
				for _, k := range keys {
					tree.Insert(k)
				}
				b.StopTimer()
				tree.Dispose()
				b.StartTimer()
			}
		})
		elapsed = time.Duration(br.NsPerOp())
	}
	if len(keys) > 0 {
		m.perKey = elapsed / time.Duration(len(keys))
	}
	return m, nil
}

func runMeasure(cmd *cobra.Command, v *viper.Viper) error {
	size, steps := v.GetInt("size"), v.GetInt("steps")
	if size < 0 || steps <= 0 {
		return errors.Errorf("invalid size %d or steps %d", size, steps)
	}
	if size > math.MaxUint32-1 {
		return errors.Wrapf(Trees.ErrCapacity, "size %d", size)
	}
	bench := v.GetBool("bench")
	if bench {
		testing.Init()
	}
	rg := rand.New(rand.NewSource(v.GetInt64("seed")))

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Size", "Height", "Bound", "Black height", "Released", "Insert/key"})
	for i := 1; i <= steps; i++ {
		n := size / steps * i
		if i == steps {
			n = size
		}
		m, err := measure(rg.Perm(n), bench)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{"size": m.size, "height": m.height, "perKey": m.perKey}).Debug("measured")
		t.AppendRow(table.Row{
			humanize.Comma(int64(m.size)), m.height, humanize.FtoaWithDigits(m.bound, 2), m.blackHeight,
			humanize.Comma(int64(m.released)), m.perKey,
		})
	}
	t.Render()
	return nil
}
