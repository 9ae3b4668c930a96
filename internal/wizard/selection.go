package wizard

// SelectionKind discriminates Selection.
type SelectionKind int

const (
	NoneSelected SelectionKind = iota
	CandidateSelected
	ExternallyProvided
)

// Selection is the show currently chosen for submission.
type Selection struct {
	Kind      SelectionKind
	Candidate Candidate // set for CandidateSelected
	Name      string    // set for ExternallyProvided
	Identity  string    // set for ExternallyProvided
}

// ShowName is the display name of the chosen show, or "".
func (s Selection) ShowName() string {
	switch s.Kind {
	case CandidateSelected:
		return s.Candidate.DisplayName
	case ExternallyProvided:
		return s.Name
	default:
		return ""
	}
}

// WhichSeries is the identity posted with the form.
func (s Selection) WhichSeries() string {
	switch s.Kind {
	case CandidateSelected:
		return s.Candidate.Key()
	case ExternallyProvided:
		return s.Identity
	default:
		return ""
	}
}

type providedShow struct {
	name     string
	identity string
}

// Selection returns the current selection. A pre-supplied show always wins
// over search results.
func (c *Controller) Selection() Selection {
	if c.provided != nil {
		return Selection{Kind: ExternallyProvided, Name: c.provided.name, Identity: c.provided.identity}
	}
	if i := c.results.Selected; i >= 0 && i < len(c.results.Rows) {
		return Selection{Kind: CandidateSelected, Candidate: c.results.Rows[i].Candidate}
	}
	return Selection{Kind: NoneSelected}
}
