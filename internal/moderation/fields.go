package moderation

import "strconv"

// Field returns the named attribute rendered as a string. The names match
// the JSON field names. ok is false for an unknown name.
func (u User) Field(name string) (value string, ok bool) {
	switch name {
	case "id":
		return strconv.Itoa(u.ID), true
	case "name":
		return u.Name, true
	case "email":
		return u.Email, true
	case "role":
		return string(u.Role), true
	case "status":
		return string(u.Status), true
	}
	return "", false
}

func (p Post) Field(name string) (value string, ok bool) {
	switch name {
	case "id":
		return strconv.Itoa(p.ID), true
	case "title":
		return p.Title, true
	case "author":
		return p.Author, true
	case "date":
		return p.Date, true
	case "content":
		return p.Content, true
	case "commentsCount":
		return strconv.Itoa(p.CommentsCount), true
	case "status":
		return string(p.Status), true
	}
	return "", false
}

func (c Comment) Field(name string) (value string, ok bool) {
	switch name {
	case "id":
		return strconv.Itoa(c.ID), true
	case "content":
		return c.Content, true
	case "postId":
		return strconv.Itoa(c.PostID), true
	case "author":
		return c.Author, true
	case "date":
		return c.Date, true
	case "status":
		return string(c.Status), true
	}
	return "", false
}

// Field for reports reports isProcessed as absent until it has been set
func (r Report) Field(name string) (value string, ok bool) {
	switch name {
	case "id":
		return strconv.Itoa(r.ID), true
	case "category":
		return string(r.Category), true
	case "type":
		return r.Type, true
	case "targetId":
		return strconv.Itoa(r.TargetID), true
	case "reason":
		return r.Reason, true
	case "reporter":
		return r.Reporter, true
	case "date":
		return r.Date, true
	case "status":
		return string(r.Status), true
	case "isProcessed":
		if !r.IsProcessed {
			return "", false
		}
		return "true", true
	}
	return "", false
}

func (c Company) Field(name string) (value string, ok bool) {
	switch name {
	case "id":
		return strconv.Itoa(c.ID), true
	case "registrationNumber":
		return c.RegistrationNumber, true
	case "name":
		return c.Name, true
	case "owner":
		return c.Owner, true
	case "phone":
		return c.Phone, true
	case "area":
		return c.Area, true
	case "license":
		return c.License, true
	case "status":
		return string(c.Status), true
	}
	return "", false
}
