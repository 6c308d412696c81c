package capture

import "hazardsync/internal/domain"

type PhotoView struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

type PointView struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// View is a copy of the wizard state safe to hand to callers.
type View struct {
	Step          Step             `json:"step"`
	Steps         []Step           `json:"steps"`
	Submitting    bool             `json:"submitting"`
	Authenticated bool             `json:"authenticated"`
	Details       Details          `json:"details"`
	Armed         *PointView       `json:"armed,omitempty"`
	Location      *domain.Location `json:"location,omitempty"`
	Photo         *PhotoView       `json:"photo,omitempty"`
	Contact       *Contact         `json:"contact,omitempty"`
}

func (m *Machine) Snapshot() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		Step:          m.step,
		Steps:         append([]Step(nil), m.steps...),
		Submitting:    m.submitting,
		Authenticated: m.identity != nil,
		Details:       m.draft.details,
	}
	if a := m.draft.armed; a != nil {
		v.Armed = &PointView{Lat: a.at.Lat, Lng: a.at.Lng}
	}
	if l := m.draft.location; l != nil {
		loc := *l
		v.Location = &loc
	}
	if p := m.draft.photo; p != nil {
		v.Photo = &PhotoView{Filename: p.Filename, ContentType: p.ContentType, Size: len(p.Data)}
	}
	if m.draft.contactOK {
		c := m.draft.contact
		v.Contact = &c
	}
	return v
}
