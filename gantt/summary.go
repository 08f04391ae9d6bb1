package gantt

// RowSummary tells how long a process held the CPU.
type RowSummary struct {
	Process string `json:"process"`
	Row     int    `json:"row"`
	Slots   int    `json:"slots"`
	First   int    `json:"first"`
	Last    int    `json:"last"`
}

// Summary aggregates a chart per row.
type Summary struct {
	Rows        []RowSummary `json:"rows"`
	TotalSlots  int          `json:"total_slots"`
	IdleSlots   int          `json:"idle_slots"`
	Utilization float64      `json:"utilization"`
}

// Summarize counts the slots of every row. Utilization is the share of slots
// in which some process other than the idle one was running.
func Summarize(c *Chart) Summary {
	s := Summary{
		Rows: make([]RowSummary, len(c.Rows)),
	}

	for i, r := range c.Rows {
		s.Rows[i] = RowSummary{Process: r.Process, Row: r.Index}
	}

	for _, iv := range c.Intervals {
		rs := &s.Rows[iv.Row]
		if rs.Slots == 0 || iv.Start < rs.First {
			rs.First = iv.Start
		}

		if rs.Slots == 0 || iv.Start > rs.Last {
			rs.Last = iv.Start
		}

		rs.Slots += iv.Length
		s.TotalSlots += iv.Length

		if c.IsIdleRow(iv.Row) {
			s.IdleSlots += iv.Length
		}
	}

	if s.TotalSlots > 0 {
		s.Utilization = float64(s.TotalSlots-s.IdleSlots) /
			float64(s.TotalSlots)
	}

	return s
}
