// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.pprof

package main

import (
	"context"

	"github.com/pkg/profile"
	"github.com/rs/zerolog/log"

	"github.com/edwinsyarief/zecs"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

type comp3 struct {
	V int64
	W int64
}

type tag struct{}

func main() {
	iters := 10000
	entities := 100000
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	if err := run(iters, entities); err != nil {
		log.Fatal().Err(err).Msg("profile run failed")
	}
	p.Stop()
}

// run spreads entities over several archetypes and times parallel traversal over them.
func run(iters, numEntities int) error {
	cfg, err := zecs.LoadConfig()
	if err != nil {
		return err
	}
	s, err := zecs.NewStore(zecs.WithConfig(cfg))
	if err != nil {
		return err
	}

	for i := range numEntities {
		l := zecs.NewLayout()
		zecs.DefineAdd(l, comp1{V: int64(i)})
		zecs.DefineAdd(l, comp2{V: 1, W: 1})
		if i%2 == 0 {
			zecs.DefineAdd(l, comp3{})
		}
		if i%3 == 0 {
			zecs.DefineAdd(l, tag{})
		}
		if i%7 == 0 {
			zecs.DefineAdd(l, zecs.Disabled{})
		}
		if _, err := s.CreateEntityWithLayout(l); err != nil {
			return err
		}
	}

	ctx := context.Background()
	q := zecs.NewQuery().Without(zecs.MustID[tag]())
	for range iters {
		err := zecs.ParallelEach2(ctx, s, q, func(_ zecs.EntityID, c1 *comp1, c2 *comp2) {
			c1.V += c2.V
			c1.W += c2.W
		})
		if err != nil {
			return err
		}
	}
	log.Info().Int("groups", len(s.Groups())).Int("entities", s.EntityCount()).Msg("done")
	return nil
}
