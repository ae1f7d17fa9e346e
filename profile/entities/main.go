// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
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

func main() {
	rounds := 50
	iters := 1000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	if err := run(rounds, iters, entities); err != nil {
		log.Fatal().Err(err).Msg("profile run failed")
	}
	p.Stop()
}

// run creates, updates and destroys batches of entities, the churn pattern relocation and
// swap-removal have to absorb.
func run(rounds, iters, numEntities int) error {
	cfg, err := zecs.LoadConfig()
	if err != nil {
		return err
	}
	layout := zecs.NewLayout()
	zecs.DefineAdd(layout, comp1{V: 1})
	zecs.DefineAdd(layout, comp2{V: 1, W: 1})

	for range rounds {
		s, err := zecs.NewStore(zecs.WithConfig(cfg))
		if err != nil {
			return err
		}
		q := zecs.NewQuery()
		for range iters {
			if _, err := s.CreateEntitiesWithLayout(numEntities, layout); err != nil {
				return err
			}
			var dead []zecs.EntityID
			err := zecs.Each2(s, q, func(e zecs.EntityID, c1 *comp1, c2 *comp2) {
				c1.V += c2.V
				c1.W += c2.W
				dead = append(dead, e)
			})
			if err != nil {
				return err
			}
			for _, e := range dead {
				if err := s.DestroyEntity(e); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
