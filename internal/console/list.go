package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/amoylab/npipe-admin/internal/common/cnst"
	"github.com/amoylab/npipe-admin/internal/proto"
	"github.com/amoylab/npipe-admin/internal/request"
	"github.com/amoylab/npipe-admin/internal/resource"
	"go.uber.org/zap"
)

// ErrRowBusy is returned when another operation on the same row is pending
var ErrRowBusy = errors.New("row operation in progress")

// PageCount is the number of pages needed for total items, at least 1
func PageCount(total, size uint32) uint32 {
	if size == 0 {
		return 1
	}
	n := total / size
	if total%size != 0 {
		n++
	}
	return max(n, 1)
}

type rowOp struct {
	id     uint32
	action cnst.ActionType
	status RowStatus
}

// ListPage fetches one page of a list at a time and tracks the add, update
// and remove operations started on it
type ListPage[T any] struct {
	app    *App
	schema ListSchema[T]
	size   uint32
	logger *zap.Logger

	page    uint32
	waiting bool
	data    *proto.ListResponse[T]
	listErr string
	add     RowStatus
	rows    map[request.Key]*rowOp
}

func NewListPage[T any](app *App, schema ListSchema[T]) *ListPage[T] {
	p := &ListPage[T]{
		app:    app,
		schema: schema,
		size:   uint32(max(app.cfg.PageSize, 1)),
		logger: app.logger.Named(schema.Name),
		rows:   make(map[request.Key]*rowOp),
	}
	app.AddPage(p)
	return p
}

func (p *ListPage[T]) listKey() request.Key { return request.For(p.schema.List) }
func (p *ListPage[T]) addKey() request.Key  { return request.For(p.schema.Add) }

// GoTo requests page n, replacing any list request still in flight
func (p *ListPage[T]) GoTo(n uint32) {
	body, err := json.Marshal(proto.ListRequest{PageNumber: n, PageSize: p.size})
	if err != nil {
		p.listErr = fmt.Sprintf("failed to encode %s request: %v", p.schema.List, err)
		return
	}
	p.app.Submit(p.listKey(), nil, body)
	p.page = n
	p.waiting = true
	p.listErr = ""
	p.logger.Debug("fetching page", zap.Uint32("page", n))
}

// Refresh requests the current page again
func (p *ListPage[T]) Refresh() {
	p.GoTo(p.page)
}

// Poll adopts finished requests. Nothing happens while logged out.
func (p *ListPage[T]) Poll() {
	if !p.app.Authenticated() {
		return
	}
	p.pollList()
	p.pollAdd()
	p.pollRows()
}

func (p *ListPage[T]) pollList() {
	slot, ok := p.app.Slot(p.listKey())
	if !ok {
		p.GoTo(p.page)
		return
	}
	if slot.Ready() {
		res := slot.Resource()
		switch res.Result.Kind {
		case resource.KindPayload:
			if data, ok := p.schema.Page(res); ok && p.waiting {
				p.waiting = false
				p.data = data
				p.page = data.CurPageNumber
				p.listErr = ""
			}
		case resource.KindError:
			p.listErr = errorText(res, "Request failed")
		default:
			p.listErr = unknownError
		}
	}

	if p.data == nil || !slot.Ready() {
		return
	}
	count := PageCount(p.data.TotalCount, p.size)
	if cur := p.data.CurPageNumber; cur > 0 && count <= cur {
		p.logger.Debug("page out of range", zap.Uint32("page", cur), zap.Uint32("pages", count))
		p.data.CurPageNumber = count - 1
		p.GoTo(count - 1)
	}
}

func (p *ListPage[T]) pollAdd() {
	if p.add.State == RowNone {
		return
	}
	slot, ok := p.app.Slot(p.addKey())
	if !ok {
		p.add = RowStatus{}
		return
	}
	if !slot.Ready() {
		p.add = RowStatus{State: RowWait}
		return
	}

	res := slot.Resource()
	switch res.Result.Kind {
	case resource.KindAck:
		p.app.Forget(p.addKey())
		p.add = RowStatus{}
		if p.data != nil {
			p.data.TotalCount++
			if len(p.data.Items) < int(p.size) {
				p.Refresh()
			}
		}
	case resource.KindError:
		p.add = RowStatus{State: RowError, Err: errorText(res, "Request failed")}
	default:
		p.add = RowStatus{State: RowError, Err: unknownError}
	}
}

func (p *ListPage[T]) pollRows() {
	for key, op := range p.rows {
		slot, ok := p.app.Slot(key)
		if !ok {
			delete(p.rows, key)
			continue
		}
		if !slot.Ready() {
			op.status = RowStatus{State: RowWait}
			continue
		}

		res := slot.Resource()
		switch res.Result.Kind {
		case resource.KindAck:
			if op.action == cnst.ActionRemove {
				p.dropRow(op.id)
			}
			p.app.Forget(key)
			delete(p.rows, key)
		case resource.KindError:
			op.status = RowStatus{State: RowError, Err: errorText(res, "Request failed")}
		default:
			op.status = RowStatus{State: RowError, Err: unknownError}
		}
	}
}

func (p *ListPage[T]) dropRow(id uint32) {
	if p.data == nil {
		return
	}
	n := len(p.data.Items)
	p.data.Items = slices.DeleteFunc(p.data.Items, func(item T) bool {
		return p.schema.ID(item) == id
	})
	if len(p.data.Items) < n && p.data.TotalCount > 0 {
		p.data.TotalCount--
	}
}

// Add submits a new item. req is the add request body of the list.
func (p *ListPage[T]) Add(req any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", p.schema.Add, err)
	}
	if _, err := p.app.TrySubmit(p.addKey(), nil, body); err != nil {
		return err
	}
	p.add = RowStatus{State: RowWait}
	return nil
}

// Update submits the edited item
func (p *ListPage[T]) Update(item T) error {
	return p.rowOp(p.schema.Update, cnst.ActionUpdate, p.schema.ID(item), p.schema.UpdateBody(item))
}

// Remove submits the removal of the item with the given id
func (p *ListPage[T]) Remove(id uint32) error {
	return p.rowOp(p.schema.Remove, cnst.ActionRemove, id, p.schema.RemoveBody(id))
}

func (p *ListPage[T]) rowOp(op proto.Operation, action cnst.ActionType, id uint32, req any) error {
	for _, other := range p.rows {
		if other.id == id && other.action != action && other.status.State == RowWait {
			return ErrRowBusy
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", op, err)
	}
	key := request.ForRow(op, id)
	if _, err := p.app.TrySubmit(key, nil, body); err != nil {
		return err
	}
	p.rows[key] = &rowOp{id: id, action: action, status: RowStatus{State: RowWait}}
	return nil
}

func (p *ListPage[T]) Reset() {
	p.page = 0
	p.waiting = false
	p.data = nil
	p.listErr = ""
	p.add = RowStatus{}
	clear(p.rows)
}

// Busy reports whether the list or an add is in flight
func (p *ListPage[T]) Busy() bool {
	return !p.app.CanRequest(p.listKey()) || !p.app.CanRequest(p.addKey())
}

// Loaded reports whether a page has been adopted
func (p *ListPage[T]) Loaded() bool {
	return p.data != nil
}

// Items returns the rows of the current page
func (p *ListPage[T]) Items() []T {
	if p.data == nil {
		return nil
	}
	return p.data.Items
}

func (p *ListPage[T]) Total() uint32 {
	if p.data == nil {
		return 0
	}
	return p.data.TotalCount
}

// Page is the zero based index of the current page
func (p *ListPage[T]) Page() uint32 {
	return p.page
}

func (p *ListPage[T]) PageCount() uint32 {
	return PageCount(p.Total(), p.size)
}

// ListErr is the message of the last failed list request
func (p *ListPage[T]) ListErr() string {
	return p.listErr
}

func (p *ListPage[T]) AddStatus() RowStatus {
	return p.add
}

// RowStatus returns the progress of action on the row with the given id
func (p *ListPage[T]) RowStatus(id uint32, action cnst.ActionType) RowStatus {
	op := p.schema.Update
	if action == cnst.ActionRemove {
		op = p.schema.Remove
	}
	if r, ok := p.rows[request.ForRow(op, id)]; ok {
		return r.status
	}
	return RowStatus{}
}
