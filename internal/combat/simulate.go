package combat

import "encoding/json"

type SimResult struct {
	Winner      string         `json:"winner"`
	Decided     bool           `json:"decided"`
	Ticks       uint64         `json:"ticks"`
	Survivors   map[string]int `json:"survivors"`
	Casualties  map[string]int `json:"casualties"`
	Engagements int            `json:"engagements"`
	Resolutions int            `json:"resolutions"`
	Events      []Event        `json:"events,omitempty"`
	Meta        SimMeta        `json:"meta"`
}

type SimMeta struct {
	Units   int                   `json:"units"`
	Arena   [2]float64            `json:"arena"`
	Classes map[string]ClassStats `json:"classes"`
	Armies  []SimArmyMeta         `json:"armies"`
}

type SimArmyMeta struct {
	Team  string `json:"team"`
	Class string `json:"class"`
	Count int    `json:"count"`
}

// Recorder collects events for a result. Pass its Emit to WithEmitter.
type Recorder struct {
	events []Event
}

func (r *Recorder) Emit(ev Event) { r.events = append(r.events, ev) }

func (r *Recorder) Events() []Event { return r.events }

// RunSingle ticks w until one side is wiped out or the world's tick count
// reaches maxTicks. maxTicks <= 0 means no limit. When rec is non-nil its
// events are attached to the result.
func RunSingle(w *World, maxTicks int, rec *Recorder) SimResult {
	start := map[Team]int{}
	armies := map[[2]int]int{}
	for i := range w.units {
		u := &w.units[i]
		start[u.Team]++
		armies[[2]int{int(u.Team), int(u.Class)}]++
	}

	for maxTicks <= 0 || w.tick < uint64(maxTicks) {
		if _, decided := w.Outcome(); decided {
			break
		}
		w.Tick()
	}

	winner, decided := w.Outcome()
	res := SimResult{
		Winner:      "none",
		Decided:     decided,
		Ticks:       w.tick,
		Survivors:   map[string]int{},
		Casualties:  map[string]int{},
		Engagements: w.engagements,
		Resolutions: w.resolutions,
		Meta: SimMeta{
			Units:   len(w.units),
			Arena:   [2]float64{w.phys.Width, w.phys.Height},
			Classes: map[string]ClassStats{},
		},
	}
	if decided && winner.Valid() {
		res.Winner = winner.String()
	}
	for t := Team(0); t < NumTeams; t++ {
		alive := w.AliveCount(t)
		res.Survivors[t.String()] = alive
		res.Casualties[t.String()] = start[t] - alive
	}
	for c := Class(0); c < NumClasses; c++ {
		res.Meta.Classes[c.String()] = w.classes[c]
	}
	for t := Team(0); t < NumTeams; t++ {
		for c := Class(0); c < NumClasses; c++ {
			if n := armies[[2]int{int(t), int(c)}]; n > 0 {
				res.Meta.Armies = append(res.Meta.Armies, SimArmyMeta{Team: t.String(), Class: c.String(), Count: n})
			}
		}
	}
	if rec != nil {
		res.Events = rec.Events()
	}
	return res
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
