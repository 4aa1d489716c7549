package diagram

import (
	"sort"

	"github.com/stafkit/bayesumis/umis"
)

// ReferenceSets accumulates the distinct reference dimensions seen
// across every admitted flow and stock: the unioned scope of the
// diagram. It replaces the single last-write-wins Reference of earlier
// designs, which silently dropped every scope but the most recent one.
type ReferenceSets struct {
	spaces     map[string]umis.Space
	materials  map[string]umis.Material
	timeframes map[[2]int]umis.Timeframe
}

func newReferenceSets() *ReferenceSets {
	return &ReferenceSets{
		spaces:     make(map[string]umis.Space),
		materials:  make(map[string]umis.Material),
		timeframes: make(map[[2]int]umis.Timeframe),
	}
}

// add folds one Reference into the sets. Both endpoint spaces count;
// timeframes dedupe on bounds, per the Timeframe equality contract.
func (r *ReferenceSets) add(ref umis.Reference) {
	r.spaces[ref.OriginSpace.ID] = ref.OriginSpace
	r.spaces[ref.DestinationSpace.ID] = ref.DestinationSpace
	r.materials[ref.Material.ID] = ref.Material
	r.timeframes[ref.Timeframe.Bounds()] = ref.Timeframe
}

// Spaces returns the distinct reference spaces, sorted by id.
func (r *ReferenceSets) Spaces() []umis.Space {
	out := make([]umis.Space, 0, len(r.spaces))
	for _, s := range r.spaces {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Materials returns the distinct reference materials, sorted by id.
func (r *ReferenceSets) Materials() []umis.Material {
	out := make([]umis.Material, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Timeframes returns the distinct timeframes, sorted by bounds.
func (r *ReferenceSets) Timeframes() []umis.Timeframe {
	out := make([]umis.Timeframe, 0, len(r.timeframes))
	for _, tf := range r.timeframes {
		out = append(out, tf)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}

		return out[i].End < out[j].End
	})

	return out
}

// HasMaterial reports whether the material was seen on any admitted
// flow or stock.
func (r *ReferenceSets) HasMaterial(m umis.Material) bool {
	_, ok := r.materials[m.ID]

	return ok
}

// HasTimeframe reports whether a timeframe with these bounds was seen.
func (r *ReferenceSets) HasTimeframe(tf umis.Timeframe) bool {
	_, ok := r.timeframes[tf.Bounds()]

	return ok
}
