package api

import "github.com/dfryer1193/localblog/blog/domain"

type Post struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
	Date    string `json:"date"`
}

// PostRequest is the body of create and update calls.
// Image is an optional image data URL; on update an empty image keeps the current one.
type PostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Image   string `json:"image" binding:"omitempty,startswith=data:image/"`
}

type PostList struct {
	Posts []Post `json:"posts"`
	Total int    `json:"total"`
}

type Error struct {
	Error string `json:"error"`
}

func FromDomain(p domain.Post) Post {
	return Post{
		ID:      p.ID,
		Title:   p.Title,
		Content: p.Content,
		Image:   p.Image,
		Date:    p.Date,
	}
}

func FromDomainList(posts []domain.Post) PostList {
	list := PostList{Posts: make([]Post, 0, len(posts)), Total: len(posts)}
	for _, p := range posts {
		list.Posts = append(list.Posts, FromDomain(p))
	}
	return list
}
