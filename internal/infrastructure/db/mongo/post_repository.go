package mongo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
)

const collectionPosts = "posts"

var errPostNotFound = domain.NotFound("Post not found")

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

type mongoPost struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Title         string               `bson:"title"`
	Slug          string               `bson:"slug"`
	Content       string               `bson:"content"`
	Excerpt       string               `bson:"excerpt"`
	Author        primitive.ObjectID   `bson:"author"`
	Category      *primitive.ObjectID  `bson:"category,omitempty"`
	Tags          []string             `bson:"tags"`
	Status        string               `bson:"status"`
	FeaturedImage string               `bson:"featuredImage,omitempty"`
	Likes         []primitive.ObjectID `bson:"likes"`
	LikesCount    int                  `bson:"likesCount"`
	Views         int64                `bson:"views"`
	PublishedAt   *time.Time           `bson:"publishedAt,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

func (mp *mongoPost) toDomain() *domain.Post {
	p := &domain.Post{
		ID:            mp.ID.Hex(),
		Title:         mp.Title,
		Slug:          mp.Slug,
		Content:       mp.Content,
		Excerpt:       mp.Excerpt,
		Author:        mp.Author.Hex(),
		Tags:          mp.Tags,
		Status:        domain.PostStatus(mp.Status),
		FeaturedImage: mp.FeaturedImage,
		Likes:         make([]string, 0, len(mp.Likes)),
		LikesCount:    mp.LikesCount,
		Views:         mp.Views,
		PublishedAt:   mp.PublishedAt,
		CreatedAt:     mp.CreatedAt,
		UpdatedAt:     mp.UpdatedAt,
	}
	if mp.Category != nil {
		p.Category = mp.Category.Hex()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	for _, id := range mp.Likes {
		p.Likes = append(p.Likes, id.Hex())
	}
	return p
}

// Create inserts a new post document and sets p.ID.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	author, err := objectID(p.Author)
	if err != nil {
		return err
	}
	doc := mongoPost{
		ID:            primitive.NewObjectID(),
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		Author:        author,
		Tags:          p.Tags,
		Status:        string(p.Status),
		FeaturedImage: p.FeaturedImage,
		Likes:         []primitive.ObjectID{},
		PublishedAt:   p.PublishedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Category != "" {
		cat, err := objectID(p.Category)
		if err != nil {
			return err
		}
		doc.Category = &cat
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return translate(err, "insert post", nil)
	}
	p.ID = doc.ID.Hex()
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *PostRepository) FindBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *PostRepository) findOne(ctx context.Context, filter bson.M) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPost
	if err := r.col.FindOne(ctx, filter).Decode(&mp); err != nil {
		return nil, translate(err, "find post", errPostNotFound)
	}
	return mp.toDomain(), nil
}

func (r *PostRepository) Update(ctx context.Context, id string, ch domain.PostChanges) (*domain.Post, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	unset := bson.M{}

	if ch.Title != nil {
		set["title"] = *ch.Title
	}
	if ch.Slug != nil {
		set["slug"] = *ch.Slug
	}
	if ch.Content != nil {
		set["content"] = *ch.Content
	}
	if ch.Excerpt != nil {
		set["excerpt"] = *ch.Excerpt
	}
	if ch.Tags != nil {
		set["tags"] = ch.Tags
	}
	if ch.Status != nil {
		set["status"] = string(*ch.Status)
	}
	if ch.FeaturedImage != nil {
		set["featuredImage"] = *ch.FeaturedImage
	}
	if ch.PublishedAt != nil {
		set["publishedAt"] = *ch.PublishedAt
	}
	if ch.Category != nil {
		if *ch.Category == "" {
			unset["category"] = ""
		} else {
			cat, err := objectID(*ch.Category)
			if err != nil {
				return nil, err
			}
			set["category"] = cat
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return r.updateOne(ctx, id, bson.M{}, update)
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translate(err, "delete post", nil)
	}
	if res.DeletedCount == 0 {
		return errPostNotFound
	}
	return nil
}

// List returns a page of posts matching filter and the total count.
func (r *PostRepository) List(ctx context.Context, f ports.PostFilter) ([]*domain.Post, int64, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Author != "" {
		oid, err := objectID(f.Author)
		if err != nil {
			return nil, 0, err
		}
		filter["author"] = oid
	}
	if f.Category != "" {
		oid, err := objectID(f.Category)
		if err != nil {
			return nil, 0, err
		}
		filter["category"] = oid
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"excerpt": re},
			bson.M{"tags": re},
		}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translate(err, "count posts", nil)
	}

	opts := options.Find().
		SetSort(sortFor(f.Sort)).
		SetSkip(pageSkip(f.Page, f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translate(err, "list posts", nil)
	}
	defer cur.Close(ctx)

	var docs []mongoPost
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, translate(err, "decode posts", nil)
	}

	posts := make([]*domain.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toDomain())
	}
	return posts, total, nil
}

func sortFor(s string) bson.D {
	switch s {
	case ports.SortOldest:
		return bson.D{{Key: "createdAt", Value: 1}}
	case ports.SortPopular:
		return bson.D{{Key: "likesCount", Value: -1}, {Key: "views", Value: -1}, {Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

// AddLike adds userID to likes when absent. The filter on likes keeps the
// counter consistent under concurrent toggles.
func (r *PostRepository) AddLike(ctx context.Context, postID, userID string) (*domain.Post, error) {
	uid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	p, err := r.updateOne(ctx, postID,
		bson.M{"likes": bson.M{"$ne": uid}},
		bson.M{"$push": bson.M{"likes": uid}, "$inc": bson.M{"likesCount": 1}},
	)
	if err == errPostNotFound {
		return r.FindByID(ctx, postID)
	}
	return p, err
}

// RemoveLike removes userID from likes when present.
func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) (*domain.Post, error) {
	uid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	p, err := r.updateOne(ctx, postID,
		bson.M{"likes": uid},
		bson.M{"$pull": bson.M{"likes": uid}, "$inc": bson.M{"likesCount": -1}},
	)
	if err == errPostNotFound {
		return r.FindByID(ctx, postID)
	}
	return p, err
}

func (r *PostRepository) IncrementViews(ctx context.Context, postID string, n int64) error {
	oid, err := objectID(postID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"views": n}})
	return translate(err, "increment views", nil)
}

func (r *PostRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	oid, err := objectID(categoryID)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"category": oid})
	if err != nil {
		return 0, translate(err, "count posts by category", nil)
	}
	return n, nil
}

// CountsByCategory returns post counts keyed by category id.
func (r *PostRepository) CountsByCategory(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"category": bson.M{"$exists": true}}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translate(err, "aggregate category counts", nil)
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Count int64              `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, translate(err, "decode category counts", nil)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID.Hex()] = row.Count
	}
	return counts, nil
}

func (r *PostRepository) updateOne(ctx context.Context, id string, extra bson.M, update bson.M) (*domain.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": oid}
	for k, v := range extra {
		filter[k] = v
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPost
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mp); err != nil {
		return nil, translate(err, "update post", errPostNotFound)
	}
	return mp.toDomain(), nil
}

// EnsureIndexes creates the indexes used by lookups and listings.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "author", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
