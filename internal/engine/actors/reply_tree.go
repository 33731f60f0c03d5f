package actors

import (
	"sort"

	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/google/uuid"
)

// maxReplyDepth bounds tree assembly. A well-formed tree never gets near
// it; hitting the limit means the parent links form a cycle or the data is
// otherwise corrupt, and the whole build fails rather than returning a
// partial tree.
const maxReplyDepth = 64

// BuildReplyTree assembles the flat reply rows of a thread into a forest.
// Replies whose parent is missing from the set are treated as top-level.
// Top-level nodes are ordered newest first; children oldest first, so
// conversations read downward in time.
//
// Assembly is an explicit worklist over the parent adjacency, not
// recursion, so a deep chain cannot blow the stack.
func BuildReplyTree(replies []*models.Reply) ([]*models.ReplyNode, error) {
	nodes := make(map[uuid.UUID]*models.ReplyNode, len(replies))
	children := make(map[uuid.UUID][]*models.ReplyNode, len(replies))
	roots := []*models.ReplyNode{}

	for _, reply := range replies {
		nodes[reply.ID] = &models.ReplyNode{Reply: *reply, Children: []*models.ReplyNode{}}
	}

	for _, reply := range replies {
		node := nodes[reply.ID]
		if reply.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if _, ok := nodes[*reply.ParentID]; !ok {
			// Orphaned by a partial delete; surface it at the top level
			// rather than dropping it.
			roots = append(roots, node)
			continue
		}
		children[*reply.ParentID] = append(children[*reply.ParentID], node)
	}

	sort.Slice(roots, func(i, j int) bool {
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})

	type workItem struct {
		node  *models.ReplyNode
		depth int
	}

	visited := make(map[uuid.UUID]bool, len(replies))
	work := make([]workItem, 0, len(roots))
	for _, root := range roots {
		work = append(work, workItem{node: root, depth: 0})
	}

	for len(work) > 0 {
		item := work[len(work)-1]
		work = work[:len(work)-1]

		if visited[item.node.ID] {
			return nil, utils.NewIntegrityError("reply graph contains a cycle")
		}
		visited[item.node.ID] = true

		if item.depth >= maxReplyDepth {
			return nil, utils.NewIntegrityError("reply nesting exceeds supported depth")
		}

		kids := children[item.node.ID]
		sort.Slice(kids, func(i, j int) bool {
			return kids[i].CreatedAt.Before(kids[j].CreatedAt)
		})
		item.node.Children = kids
		item.node.RepliesCount = len(kids)

		for _, kid := range kids {
			work = append(work, workItem{node: kid, depth: item.depth + 1})
		}
	}

	if len(visited) != len(replies) {
		return nil, utils.NewIntegrityError("reply graph contains an unreachable cycle")
	}

	return roots, nil
}

// CollectSubtree returns the reply rooted at rootID and all of its
// descendants, drawn from the thread's full reply set. The root comes
// first; descendants follow in an order where every parent precedes its
// children. The same cycle and depth guards as tree assembly apply.
func CollectSubtree(replies []*models.Reply, rootID uuid.UUID) ([]*models.Reply, error) {
	byID := make(map[uuid.UUID]*models.Reply, len(replies))
	children := make(map[uuid.UUID][]*models.Reply, len(replies))
	for _, reply := range replies {
		byID[reply.ID] = reply
		if reply.ParentID != nil {
			children[*reply.ParentID] = append(children[*reply.ParentID], reply)
		}
	}

	root, ok := byID[rootID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "reply not found in thread", nil)
	}

	type workItem struct {
		reply *models.Reply
		depth int
	}

	visited := make(map[uuid.UUID]bool)
	collected := []*models.Reply{}
	work := []workItem{{reply: root, depth: 0}}

	for len(work) > 0 {
		item := work[0]
		work = work[1:]

		if visited[item.reply.ID] {
			return nil, utils.NewIntegrityError("reply graph contains a cycle")
		}
		visited[item.reply.ID] = true

		if item.depth >= maxReplyDepth {
			return nil, utils.NewIntegrityError("reply nesting exceeds supported depth")
		}

		collected = append(collected, item.reply)
		kids := children[item.reply.ID]
		sort.Slice(kids, func(i, j int) bool {
			return kids[i].CreatedAt.Before(kids[j].CreatedAt)
		})
		for _, kid := range kids {
			work = append(work, workItem{reply: kid, depth: item.depth + 1})
		}
	}

	return collected, nil
}
