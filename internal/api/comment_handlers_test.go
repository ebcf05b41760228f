package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"cinelog/internal/models"
	"cinelog/internal/testutil"
)

func TestCommentLifecycle(t *testing.T) {
	env := testutil.SetupTestServer(t)
	router := env.Server.Router()
	cookie := testutil.GetAuthCookie(t, env, "alice", "password123")

	rr := doRequest(t, router, "POST", "/api/movies/101/comments",
		map[string]string{"text": "Holds up on rewatch."}, cookie)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add comment returned %d: %s", rr.Code, rr.Body.String())
	}
	var created models.Comment
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding created comment: %v", err)
	}
	if created.Text != "Holds up on rewatch." || created.Username != "alice" {
		t.Errorf("unexpected created comment: %+v", created)
	}

	// Comment threads are public.
	rr = doRequest(t, router, "GET", "/api/movies/101/comments", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("listing comments returned %d", rr.Code)
	}
	var comments []models.Comment
	if err := json.Unmarshal(rr.Body.Bytes(), &comments); err != nil {
		t.Fatalf("decoding comments: %v", err)
	}
	if len(comments) != 1 || comments[0].ID != created.ID {
		t.Errorf("unexpected comments: %+v", comments)
	}

	rr = doRequest(t, router, "DELETE", "/api/comments/"+created.ID, nil, cookie)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete comment returned %d: %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(t, router, "GET", "/api/movies/101/comments", nil, nil)
	if err := json.Unmarshal(rr.Body.Bytes(), &comments); err != nil {
		t.Fatalf("decoding comments: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("expected empty thread after delete, got %+v", comments)
	}
}

func TestCommentValidation(t *testing.T) {
	env := testutil.SetupTestServer(t)
	router := env.Server.Router()
	cookie := testutil.GetAuthCookie(t, env, "alice", "password123")

	rr := doRequest(t, router, "POST", "/api/movies/101/comments",
		map[string]string{"text": "   "}, cookie)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("blank comment should be 400, got %d", rr.Code)
	}

	rr = doRequest(t, router, "POST", "/api/movies/101/comments",
		map[string]string{"text": "anonymous hot take"}, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous comment should be 401, got %d", rr.Code)
	}
}

func TestDeleteCommentRejectsNonAuthor(t *testing.T) {
	env := testutil.SetupTestServer(t)
	router := env.Server.Router()
	aliceCookie := testutil.GetAuthCookie(t, env, "alice", "password123")
	bobCookie := testutil.GetAuthCookie(t, env, "bob", "password456")

	rr := doRequest(t, router, "POST", "/api/movies/101/comments",
		map[string]string{"text": "Alice's take."}, aliceCookie)
	var created models.Comment
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding created comment: %v", err)
	}

	rr = doRequest(t, router, "DELETE", "/api/comments/"+created.ID, nil, bobCookie)
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403 deleting someone else's comment, got %d", rr.Code)
	}
}
