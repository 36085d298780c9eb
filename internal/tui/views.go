package tui

type View int

const (
	ViewFeed View = iota
	ViewFavorites
	ViewMyStories
	ViewDetail
	ViewLogin
	ViewSignup
	ViewSubmit
	ViewDeleteConfirm
	ViewSearch
)

// collectionViews are the three story collections the tab key cycles.
var collectionViews = []View{ViewFeed, ViewFavorites, ViewMyStories}

func (v View) isCollection() bool {
	for _, cv := range collectionViews {
		if v == cv {
			return true
		}
	}
	return false
}

func (v View) title() string {
	switch v {
	case ViewFeed:
		return "› stories"
	case ViewFavorites:
		return "› favorites"
	case ViewMyStories:
		return "› my stories"
	case ViewSearch:
		return "› search"
	default:
		return "› snooze"
	}
}
