package productr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListItems(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/items", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.Equal(t, "Active", r.URL.Query().Get("status"))
		require.Equal(t, "2", r.URL.Query().Get("page"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{"_id": "i1", "productName": "Walnut Desk", "status": "Active"},
				{"_id": "i2", "productName": "Oak Chair", "status": "Active"},
			},
		})
	}))
	defer srv.Close()

	client := NewSDKClient(srv.URL)
	items, err := client.ListItems(context.Background(), "tok", ListItemsParams{
		Status: "Active",
		Page:   2,
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Walnut Desk", items[0].ProductName)
}

func TestCreateItem(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/items", r.URL.Path)

		var item Item
		require.NoError(t, json.NewDecoder(r.Body).Decode(&item))
		require.Equal(t, "Walnut Desk", item.ProductName)
		require.Equal(t, 249.0, item.SellingPrice)

		item.ID = "i9"
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": item})
	}))
	defer srv.Close()

	client := NewSDKClient(srv.URL)
	created, err := client.CreateItem(context.Background(), "tok", Item{
		ProductName:  "Walnut Desk",
		SellingPrice: 249,
	})
	require.NoError(t, err)
	require.Equal(t, "i9", created.ID)
}

func TestUpdateItemStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/items/i1/status", r.URL.Path)

		var req statusUpdateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, ItemStatusInactive, req.Status)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"_id": "i1", "status": ItemStatusInactive},
		})
	}))
	defer srv.Close()

	client := NewSDKClient(srv.URL)
	item, err := client.UpdateItemStatus(context.Background(), "tok", "i1", ItemStatusInactive)
	require.NoError(t, err)
	require.Equal(t, ItemStatusInactive, item.Status)
}

func TestDeleteItem(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodDelete, r.Method)
			require.Equal(t, "/items/i1", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
		}))
		defer srv.Close()

		client := NewSDKClient(srv.URL)
		require.NoError(t, client.DeleteItem(context.Background(), "tok", "i1"))
	})

	t.Run("missing token rejected by backend", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"message": "Not authorized",
			})
		}))
		defer srv.Close()

		client := NewSDKClient(srv.URL)
		err := client.DeleteItem(context.Background(), "", "i1")

		apiErr, ok := AsAPIError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	})
}

func TestListItemsParamsEncode(t *testing.T) {
	t.Parallel()

	require.Empty(t, ListItemsParams{}.encode())

	q := ListItemsParams{Search: "desk", Status: "Active", Type: "furniture", Page: 1, Limit: 20}.encode()
	require.Contains(t, q, "search=desk")
	require.Contains(t, q, "status=Active")
	require.Contains(t, q, "productType=furniture")
	require.Contains(t, q, "page=1")
	require.Contains(t, q, "limit=20")
}
