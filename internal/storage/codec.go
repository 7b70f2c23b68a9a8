package storage

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/haugland/velour/internal/cart"
	"github.com/haugland/velour/internal/catalog"
	"github.com/haugland/velour/internal/session"
)

// The persisted formats mirror the records a browser storefront would keep
// in local storage. The cart record holds items only; the total is derived
// state and recomputed on load. Prices are encoded as raw JSON numbers from
// their decimal representation so no precision is lost in a round trip.

// EncodeCart serializes cart items for the KeyCart record.
func EncodeCart(items []cart.Item) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, it := range items {
		encodeItem(&e, it)
	}
	e.ArrEnd()
	return e.Bytes()
}

// DecodeCart parses a KeyCart record.
func DecodeCart(data []byte) ([]cart.Item, error) {
	d := jx.DecodeBytes(data)
	var items []cart.Item
	err := d.Arr(func(d *jx.Decoder) error {
		it, err := decodeItem(d)
		if err != nil {
			return err
		}
		items = append(items, it)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode cart record")
	}
	return items, nil
}

// EncodeSession serializes the auth session for the KeyAuth record.
func EncodeSession(st session.State) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("user")
	if st.User == nil {
		e.Null()
	} else {
		encodeUser(&e, *st.User)
	}
	e.FieldStart("isAuthenticated")
	e.Bool(st.IsAuthenticated)
	e.ObjEnd()
	return e.Bytes()
}

// DecodeSession parses a KeyAuth record. The isAuthenticated flag is read
// for compatibility but the caller re-derives it from the user.
func DecodeSession(data []byte) (session.State, error) {
	d := jx.DecodeBytes(data)
	var st session.State
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "user":
			if d.Next() == jx.Null {
				return d.Null()
			}
			u, err := decodeUser(d)
			if err != nil {
				return err
			}
			st.User = &u
			return nil
		case "isAuthenticated":
			v, err := d.Bool()
			st.IsAuthenticated = v
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return session.State{}, errors.Wrap(err, "decode session record")
	}
	st.IsAuthenticated = st.User != nil
	return st, nil
}

func encodeItem(e *jx.Encoder, it cart.Item) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(it.ID)
	e.FieldStart("title")
	e.Str(it.Title)
	e.FieldStart("description")
	e.Str(it.Description)
	e.FieldStart("price")
	e.Num(jx.Num(it.Price.String()))
	e.FieldStart("discountedPrice")
	e.Num(jx.Num(it.DiscountedPrice.String()))
	e.FieldStart("image")
	encodeMedia(e, it.Image)
	e.FieldStart("rating")
	e.Float64(it.Rating)
	e.FieldStart("tags")
	e.ArrStart()
	for _, tag := range it.Tags {
		e.Str(tag)
	}
	e.ArrEnd()
	e.FieldStart("reviews")
	e.ArrStart()
	for _, r := range it.Reviews {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(r.ID)
		e.FieldStart("username")
		e.Str(r.Username)
		e.FieldStart("rating")
		e.Float64(r.Rating)
		e.FieldStart("description")
		e.Str(r.Description)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("quantity")
	e.Int(it.Quantity)
	e.ObjEnd()
}

func decodeItem(d *jx.Decoder) (cart.Item, error) {
	var it cart.Item
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			it.ID, err = d.Str()
		case "title":
			it.Title, err = d.Str()
		case "description":
			it.Description, err = d.Str()
		case "price":
			it.Price, err = decodeDecimal(d)
		case "discountedPrice":
			it.DiscountedPrice, err = decodeDecimal(d)
		case "image":
			it.Image, err = decodeMedia(d)
		case "rating":
			it.Rating, err = d.Float64()
		case "tags":
			err = d.Arr(func(d *jx.Decoder) error {
				tag, err := d.Str()
				if err != nil {
					return err
				}
				it.Tags = append(it.Tags, tag)
				return nil
			})
		case "reviews":
			err = d.Arr(func(d *jx.Decoder) error {
				r, err := decodeReview(d)
				if err != nil {
					return err
				}
				it.Reviews = append(it.Reviews, r)
				return nil
			})
		case "quantity":
			it.Quantity, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	})
	return it, err
}

func decodeReview(d *jx.Decoder) (catalog.Review, error) {
	var r catalog.Review
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			r.ID, err = d.Str()
		case "username":
			r.Username, err = d.Str()
		case "rating":
			r.Rating, err = d.Float64()
		case "description":
			r.Description, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return r, err
}

func encodeMedia(e *jx.Encoder, m catalog.Media) {
	e.ObjStart()
	e.FieldStart("url")
	e.Str(m.URL)
	e.FieldStart("alt")
	e.Str(m.Alt)
	e.ObjEnd()
}

func decodeMedia(d *jx.Decoder) (catalog.Media, error) {
	var m catalog.Media
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "url":
			m.URL, err = d.Str()
		case "alt":
			m.Alt, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return m, err
}

func encodeUser(e *jx.Encoder, u session.User) {
	e.ObjStart()
	e.FieldStart("name")
	e.Str(u.Name)
	e.FieldStart("email")
	e.Str(u.Email)
	if u.Bio != "" {
		e.FieldStart("bio")
		e.Str(u.Bio)
	}
	if u.Avatar != nil {
		e.FieldStart("avatar")
		encodeMedia(e, *u.Avatar)
	}
	if u.Banner != nil {
		e.FieldStart("banner")
		encodeMedia(e, *u.Banner)
	}
	e.FieldStart("venueManager")
	e.Bool(u.VenueManager)
	if u.AccessToken != "" {
		e.FieldStart("accessToken")
		e.Str(u.AccessToken)
	}
	e.ObjEnd()
}

func decodeUser(d *jx.Decoder) (session.User, error) {
	var u session.User
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			u.Name, err = d.Str()
		case "email":
			u.Email, err = d.Str()
		case "bio":
			u.Bio, err = d.Str()
		case "avatar":
			var m catalog.Media
			m, err = decodeMedia(d)
			u.Avatar = &m
		case "banner":
			var m catalog.Media
			m, err = decodeMedia(d)
			u.Banner = &m
		case "venueManager":
			u.VenueManager, err = d.Bool()
		case "accessToken":
			u.AccessToken, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return u, err
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	v, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "parse decimal")
	}
	return v, nil
}
