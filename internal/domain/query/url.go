package query

import (
	"net/url"
	"strings"
)

// DefaultBaseURL is the public Firestore REST endpoint.
const DefaultBaseURL = "https://firestore.googleapis.com/v1/projects"

func databaseRoot(baseURL, projectID string) string {
	return strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(projectID) + "/databases/(default)"
}

func documentsRoot(baseURL, projectID string) string {
	return databaseRoot(baseURL, projectID) + "/documents"
}

// escapePath escapes every slash-separated segment of p on its own, so
// characters such as '#', '?' and '%' in ids stay part of the path.
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// RunQueryURL returns the :runQuery endpoint scoped to parent.
func RunQueryURL(baseURL, projectID, parent string) string {
	u := documentsRoot(baseURL, projectID)
	if parent != "" {
		u += "/" + escapePath(parent)
	}
	return u + ":runQuery"
}

// DocumentURL returns the URL of a single document.
func DocumentURL(baseURL, projectID, collectionPath, id string) string {
	return documentsRoot(baseURL, projectID) + "/" + escapePath(collectionPath) + "/" + escapePath(id)
}

// DatabaseURL returns the URL of the default database resource.
func DatabaseURL(baseURL, projectID string) string {
	return databaseRoot(baseURL, projectID)
}
