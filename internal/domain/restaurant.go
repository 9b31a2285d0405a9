package domain

import (
	"time"
)

// EditWindow is how long after posting a review its author may still edit it.
// Edits at exactly the boundary are allowed; only strictly later edits are
// rejected. Deletion is deliberately not subject to the window.
const EditWindow = 48 * time.Hour

// User is the identity snapshot of a review author, extracted once per
// request from a verified token. It is embedded in reviews at write time and
// never updated afterwards.
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// Photo is an opaque reference to an uploaded photo plus its upload time.
type Photo struct {
	URL        string    `json:"url"`
	UploadDate time.Time `json:"upload_date"`
}

// Review is a restaurant review. Reviews live inside their restaurant
// aggregate and have no storage identity of their own.
type Review struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Rating     int       `json:"rating"`
	Photos     []Photo   `json:"photos"`
	DatePosted time.Time `json:"date_posted"`
	LastEdited time.Time `json:"last_edited"`
	WrittenBy  User      `json:"written_by"`
}

// Editable reports whether the review may still be edited at the given time.
func (r *Review) Editable(now time.Time) bool {
	return !now.After(r.DatePosted.Add(EditWindow))
}

// GeoPoint is a WGS84 coordinate pair, stored as a geo_point in the index.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Address is a restaurant's physical location.
type Address struct {
	StreetNumber string `json:"street_number"`
	StreetName   string `json:"street_name"`
	Unit         string `json:"unit,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// TimeRange is an opening/closing time pair in "HH:MM" form.
type TimeRange struct {
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

// OperatingHours holds the weekly schedule. A nil day means closed.
type OperatingHours struct {
	Monday    *TimeRange `json:"monday,omitempty"`
	Tuesday   *TimeRange `json:"tuesday,omitempty"`
	Wednesday *TimeRange `json:"wednesday,omitempty"`
	Thursday  *TimeRange `json:"thursday,omitempty"`
	Friday    *TimeRange `json:"friday,omitempty"`
	Saturday  *TimeRange `json:"saturday,omitempty"`
	Sunday    *TimeRange `json:"sunday,omitempty"`
}

// Restaurant is the aggregate root and the unit of persistence: the whole
// document, embedded reviews included, is read and written as one. There is
// no partial-field update contract; concurrent writers race last-writer-wins.
type Restaurant struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	CuisineType        string          `json:"cuisine_type"`
	ContactInformation string          `json:"contact_information"`
	Address            Address         `json:"address"`
	OperatingHours     OperatingHours  `json:"operating_hours"`
	GeoLocation        GeoPoint        `json:"geo_location"`
	AverageRating      float64         `json:"average_rating"`
	Photos             []Photo         `json:"photos"`
	Reviews            []Review        `json:"reviews"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// RecomputeAverageRating sets AverageRating to the arithmetic mean of all
// review ratings, or 0 when there are none. Call it after every structural
// change to the review collection, before persisting.
func (r *Restaurant) RecomputeAverageRating() {
	if len(r.Reviews) == 0 {
		r.AverageRating = 0
		return
	}

	var sum int
	for i := range r.Reviews {
		sum += r.Reviews[i].Rating
	}
	r.AverageRating = float64(sum) / float64(len(r.Reviews))
}

// FindReview returns the review with the given id, or nil if absent.
func (r *Restaurant) FindReview(reviewID string) *Review {
	for i := range r.Reviews {
		if r.Reviews[i].ID == reviewID {
			return &r.Reviews[i]
		}
	}
	return nil
}

// HasReviewBy reports whether the given user has already reviewed this
// restaurant. Checked only at creation time: a user whose review was deleted
// may review again.
func (r *Restaurant) HasReviewBy(userID string) bool {
	for i := range r.Reviews {
		if r.Reviews[i].WrittenBy.ID == userID {
			return true
		}
	}
	return false
}

// RemoveReview deletes the review with the given id from the collection and
// reports whether it was present.
func (r *Restaurant) RemoveReview(reviewID string) bool {
	for i := range r.Reviews {
		if r.Reviews[i].ID == reviewID {
			r.Reviews = append(r.Reviews[:i], r.Reviews[i+1:]...)
			return true
		}
	}
	return false
}
