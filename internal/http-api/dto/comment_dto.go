package dto

import (
	"time"

	"blogapi/internal/http-api/models"
)

type CreateCommentRequest struct {
	Comment  string  `json:"comment" binding:"required,min=1,max=5000"`
	ParentID *uint64 `json:"parent_id"`
}

type CommentUser struct {
	Image     *string `json:"image"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Gender    *string `json:"gender"`
	Email     string  `json:"email"`
}

// CommentNode is one comment in the threaded view. Children is never nil once built.
type CommentNode struct {
	ID        uint64        `json:"id"`
	ParentID  *uint64       `json:"parent_id"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"created_at"`
	User      CommentUser   `json:"user"`
	Children  []CommentNode `json:"children"`
}

type CommentTreeResponse struct {
	Message string        `json:"message"`
	Data    []CommentNode `json:"data"`
}

func FromModelToCommentNode(c *models.Comment) CommentNode {
	return CommentNode{
		ID:        c.ID,
		ParentID:  c.ParentID,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
		User: CommentUser{
			Image:     c.User.Image,
			FirstName: c.User.FirstName,
			LastName:  c.User.LastName,
			Gender:    c.User.Gender,
			Email:     c.User.Email,
		},
	}
}

func FromModelsToCommentNodes(list []models.Comment) []CommentNode {
	out := make([]CommentNode, 0, len(list))
	for i := range list {
		out = append(out, FromModelToCommentNode(&list[i]))
	}
	return out
}

// BuildCommentTree nests a flat comment list under its roots (nil ParentID).
// Siblings keep their input order. Nodes whose parent is not in the list are
// dropped along with their replies, and every id is emitted at most once, so
// self-referencing or cyclic rows never appear. flat is not modified.
func BuildCommentTree(flat []CommentNode) []CommentNode {
	children := make(map[uint64][]int, len(flat))
	roots := make([]int, 0, len(flat))
	for i := range flat {
		if flat[i].ParentID == nil {
			roots = append(roots, i)
			continue
		}
		pid := *flat[i].ParentID
		children[pid] = append(children[pid], i)
	}

	emitted := make(map[uint64]bool, len(flat))
	var build func(i int) (CommentNode, bool)
	build = func(i int) (CommentNode, bool) {
		src := flat[i]
		if emitted[src.ID] {
			return CommentNode{}, false
		}
		emitted[src.ID] = true

		node := src
		node.Children = make([]CommentNode, 0, len(children[src.ID]))
		for _, ci := range children[src.ID] {
			if child, ok := build(ci); ok {
				node.Children = append(node.Children, child)
			}
		}
		return node, true
	}

	tree := make([]CommentNode, 0, len(roots))
	for _, i := range roots {
		if node, ok := build(i); ok {
			tree = append(tree, node)
		}
	}
	return tree
}

// CommentResponse is the row returned after a comment is posted.
type CommentResponse struct {
	ID        uint64    `json:"id"`
	ParentID  *uint64   `json:"parent_id"`
	ArticleID uint64    `json:"article_id"`
	UserID    uint64    `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModelToCommentResponse(c *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:        c.ID,
		ParentID:  c.ParentID,
		ArticleID: c.ArticleID,
		UserID:    c.UserID,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
