package model

// DriveFile is a handle to a file located in the user's Google Drive
type DriveFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MimeType    string `json:"mime_type"`
	Size        int64  `json:"size,omitempty"`
	WebViewLink string `json:"web_view_link,omitempty"`
}

// DriveFolder identifies a Drive folder chosen as the video source scope
type DriveFolder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
