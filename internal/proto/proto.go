package proto

// GeneralResponse is the generic {code, msg} acknowledgment
type GeneralResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ListRequest asks for one page of a list. Page numbers start at 0.
type ListRequest struct {
	PageNumber uint32 `json:"page_number"`
	PageSize   uint32 `json:"page_size"`
}

type (
	PlayerListRequest = ListRequest
	TunnelListRequest = ListRequest
)

// ListResponse is one page of a paginated list. The wire name of Items
// depends on the list: "players" or "tunnels".
type ListResponse[T any] struct {
	CurPageNumber uint32 `json:"cur_page_number"`
	TotalCount    uint32 `json:"total_count"`
	Items         []T    `json:"-"`
}

type Player struct {
	ID       uint32 `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Online   bool   `json:"online"`
}

func (p Player) GetID() uint32 { return p.ID }

type PlayerAddReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type PlayerUpdateReq struct {
	ID       uint32 `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type PlayerRemoveReq struct {
	ID uint32 `json:"id"`
}

type Tunnel struct {
	ID          uint32 `json:"id"`
	Source      string `json:"source"`
	Endpoint    string `json:"endpoint"`
	Enabled     bool   `json:"enabled"`
	Sender      uint32 `json:"sender"`
	Receiver    uint32 `json:"receiver"`
	Description string `json:"description"`
}

func (t Tunnel) GetID() uint32 { return t.ID }

// TunnelAddReq carries Enabled as 0 or 1
type TunnelAddReq struct {
	Source      string `json:"source"`
	Endpoint    string `json:"endpoint"`
	Enabled     uint8  `json:"enabled"`
	Sender      uint32 `json:"sender"`
	Receiver    uint32 `json:"receiver"`
	Description string `json:"description"`
}

type TunnelUpdateReq struct {
	ID          uint32 `json:"id"`
	Source      string `json:"source"`
	Endpoint    string `json:"endpoint"`
	Enabled     uint8  `json:"enabled"`
	Sender      uint32 `json:"sender"`
	Receiver    uint32 `json:"receiver"`
	Description string `json:"description"`
}

type TunnelRemoveReq struct {
	ID uint32 `json:"id"`
}

// BoolFlag converts a bool to the 0/1 form used by tunnel requests
func BoolFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// NewTunnelUpdateReq builds the update request for an edited tunnel row
func NewTunnelUpdateReq(t Tunnel) TunnelUpdateReq {
	return TunnelUpdateReq{
		ID:          t.ID,
		Source:      t.Source,
		Endpoint:    t.Endpoint,
		Enabled:     BoolFlag(t.Enabled),
		Sender:      t.Sender,
		Receiver:    t.Receiver,
		Description: t.Description,
	}
}

// NewPlayerUpdateReq builds the update request for an edited player row
func NewPlayerUpdateReq(p Player) PlayerUpdateReq {
	return PlayerUpdateReq{ID: p.ID, Username: p.Username, Password: p.Password}
}
