package awclient

// bucketJSON is one value of the GET /api/0/buckets/ response.
type bucketJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Client   string `json:"client"`
	Hostname string `json:"hostname"`
	Created  string `json:"created"`
}
