package contracts

// VersionMarker is the persisted record of which manifest version is
// installed locally. Only Version is interpreted by the engine; the remaining
// fields pass through unchanged for the upstream launcher's benefit.
type VersionMarker struct {
	Version       string `json:"version"`
	ReUseVersion  string `json:"reUseVersion"`
	State         string `json:"state"`
	IsPreDownload bool   `json:"isPreDownload"`
	AppID         string `json:"appId"`
}
