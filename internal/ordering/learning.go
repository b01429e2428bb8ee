package ordering

// learningState counts, per heuristic source, how often a move it ranked
// produced a beta cutoff.
type learningState struct {
	tries   [numSources]uint64
	cutoffs [numSources]uint64
}

func (l *learningState) reset() {
	*l = learningState{}
}

// RecordCutoff notes that a move scored by source caused a beta cutoff.
func (o *Orderer) RecordCutoff(source HeuristicSource) {
	if source >= numSources {
		return
	}
	o.learning.tries[source]++
	o.learning.cutoffs[source]++
}

// RecordNoCutoff notes that a move scored by source was searched without a cutoff.
func (o *Orderer) RecordNoCutoff(source HeuristicSource) {
	if source >= numSources {
		return
	}
	o.learning.tries[source]++
}

// CutoffRate returns the observed cutoff rate of a source and its sample count.
func (o *Orderer) CutoffRate(source HeuristicSource) (float64, uint64) {
	if source >= numSources || o.learning.tries[source] == 0 {
		return 0, 0
	}
	tries := o.learning.tries[source]
	return float64(o.learning.cutoffs[source]) / float64(tries), tries
}

// ApplyLearning moves the weight of every sufficiently sampled source by
// learning_rate toward its cutoff rate: sources above a 50% rate gain weight,
// sources below lose it. Samples of adjusted sources are reset. It returns the
// number of weights changed.
func (o *Orderer) ApplyLearning() int {
	lc := o.cfg.Learning
	if !lc.Enabled {
		return 0
	}

	adjusted := 0
	for s := HeuristicSource(0); s < numSources; s++ {
		id, ok := s.weight()
		if !ok {
			continue
		}
		rate, tries := o.CutoffRate(s)
		if tries == 0 || tries < uint64(lc.MinSamples) {
			continue
		}

		w := o.cfg.Weights.Get(id)
		nw := w + int(lc.LearningRate*(rate-0.5)*float64(w))
		nw = max(lc.MinWeight, min(lc.MaxWeight, nw))

		o.learning.tries[s] = 0
		o.learning.cutoffs[s] = 0
		if nw == w {
			continue
		}
		o.cfg.Weights.Set(id, nw)
		adjusted++
		o.log.Debug().Str("weight", id.String()).Int("from", w).Int("to", nw).
			Float64("cutoff_rate", rate).Msg("weight-adjusted")
	}

	if adjusted > 0 {
		o.scoreCache.Clear()
		o.results.Clear()
	}
	return adjusted
}
