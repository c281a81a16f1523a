package zotero

import "github.com/hekang/thesis-tools/internal/literature"

// Item is one Web API item envelope. The record fields live under Data.
type Item struct {
	Key     string          `json:"key"`
	Version int             `json:"version"`
	Data    literature.Item `json:"data"`
}

// KeyInfo describes the API key returned by /keys/current.
type KeyInfo struct {
	Key      string `json:"key"`
	UserID   int64  `json:"userID"`
	Username string `json:"username"`
	Access   struct {
		User struct {
			Library bool `json:"library"`
			Files   bool `json:"files"`
			Notes   bool `json:"notes"`
			Write   bool `json:"write"`
		} `json:"user"`
	} `json:"access"`
}

// attachmentTemplate is the item payload creating an imported-file
// attachment under a parent item.
type attachmentTemplate struct {
	ItemType    string `json:"itemType"`
	LinkMode    string `json:"linkMode"`
	Title       string `json:"title"`
	ParentItem  string `json:"parentItem"`
	ContentType string `json:"contentType"`
	Filename    string `json:"filename"`
}

// createResponse is the Web API response to an item-creation request.
type createResponse struct {
	Successful map[string]Item   `json:"successful"`
	Failed     map[string]struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"failed"`
}

// uploadAuthorization is the response to a file-upload authorization
// request. When Exists is set the server already has the file.
type uploadAuthorization struct {
	Exists      int    `json:"exists"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Prefix      string `json:"prefix"`
	Suffix      string `json:"suffix"`
	UploadKey   string `json:"uploadKey"`
}
