package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/g-m-twostay/ostree/Trees"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newQueryCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [keys...]",
		Short: "insert keys into a tree and query it",
		Long: `Inserts the keys given as arguments and with --keys, in order, then answers the queries.

Example:
  ostree query 10 20 30 --rank 20 --select 0,2 --contains 25 --dump`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, v, args)
		},
	}
	cmd.Flags().StringSlice("keys", nil, "keys to insert, after the arguments")
	cmd.Flags().Bool("sorted", false, "keys are strictly increasing, build the tree in one pass")
	cmd.Flags().StringSlice("rank", nil, "print the number of keys less than each of these")
	cmd.Flags().StringSlice("select", nil, "print the key at each of these ranks, starting from 0")
	cmd.Flags().StringSlice("contains", nil, "print whether each of these keys is present")
	cmd.Flags().Bool("dump", false, "print the tree structure")
	return cmd
}

// parseInts accepts both repeated values and values separated by commas or spaces.
func parseInts(name string, ss []string) ([]int, error) {
	var out []int
	for _, s := range ss {
		for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || unicode.IsSpace(r) }) {
			i, err := strconv.Atoi(f)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid %s value %q", name, f)
			}
			out = append(out, i)
		}
	}
	return out, nil
}

func buildTree(keys []int, sorted bool) (*Trees.RBTree[int, uint32], error) {
	if sorted {
		return Trees.From[int, uint32](keys)
	}
	tree := Trees.New[int, uint32](uint32(len(keys)))
	for _, k := range keys {
		if !tree.Insert(k) {
			log.WithField("key", k).Debug("duplicate key ignored")
		}
	}
	return tree, nil
}

func runQuery(cmd *cobra.Command, v *viper.Viper, args []string) error {
	keys, err := parseInts("key", append(args, v.GetStringSlice("keys")...))
	if err != nil {
		return err
	}
	ranks, err := parseInts("rank", v.GetStringSlice("rank"))
	if err != nil {
		return err
	}
	selects, err := parseInts("select", v.GetStringSlice("select"))
	if err != nil {
		return err
	}
	contains, err := parseInts("contains", v.GetStringSlice("contains"))
	if err != nil {
		return err
	}

	tree, err := buildTree(keys, v.GetBool("sorted"))
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"keys": len(keys), "size": tree.Size(), "height": tree.Height()}).Debug("tree built")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "size = %d\n", tree.Size())
	for _, k := range contains {
		fmt.Fprintf(out, "contains(%d) = %t\n", k, tree.Has(k))
	}
	for _, k := range ranks {
		r, err := tree.RankOf(k)
		if err != nil {
			return errors.Wrapf(err, "rank(%d)", k)
		}
		fmt.Fprintf(out, "rank(%d) = %d\n", k, r)
	}
	for _, r := range selects {
		if r < 0 || uint64(r) > math.MaxUint32 {
			return errors.Wrapf(Trees.ErrRankOutOfRange, "select(%d)", r)
		}
		k, err := tree.Select(uint32(r))
		if err != nil {
			return errors.Wrapf(err, "select(%d)", r)
		}
		fmt.Fprintf(out, "select(%d) = %d\n", r, k)
	}
	if v.GetBool("dump") {
		if err := tree.Dump(out); err != nil {
			return errors.Wrap(err, "dump")
		}
	}
	log.WithField("released", tree.Dispose()).Debug("tree disposed")
	return nil
}
