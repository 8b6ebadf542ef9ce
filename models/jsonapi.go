package models

// Media type JSON:API, используется во всех ответах API.
const ContentType = "application/vnd.api+json"

// ResourceIdentifier идентифицирует ресурс в relationship-документе.
type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Resource это полный JSON:API ресурс с атрибутами.
type Resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id"`
	Attributes    map[string]interface{}  `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// To-many связь внутри ресурса.
type Relationship struct {
	Data []ResourceIdentifier `json:"data"`
}

// Document оборачивает один ресурс.
type Document struct {
	Data     *Resource  `json:"data"`
	Included []Resource `json:"included,omitempty"`
}

// CollectionDocument оборачивает список ресурсов.
type CollectionDocument struct {
	Data     []Resource `json:"data"`
	Included []Resource `json:"included,omitempty"`
}

// Тело запроса/ответа для relationship-эндпоинтов:
// { "data": [ {"type": ..., "id": ...}, ... ] }.
type RelationshipDocument struct {
	Data     []ResourceIdentifier `json:"data"`
	Included []Resource           `json:"included,omitempty"`
}

// Один элемент массива errors. Detail опускается для внутренних ошибок,
// чтобы не утекать детали.
type ErrorObject struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

// Стандартный конверт ошибок: { "errors": [...] }.
type ErrorDocument struct {
	Errors []ErrorObject `json:"errors"`
}

// Snapshot это денормализованная проекция связанной сущности (id + имя),
// попадает в секцию included ответов.
type Snapshot struct {
	Type string
	ID   string
	Name string
}

// Resource превращает снапшот в минимальный JSON:API ресурс.
func (s Snapshot) Resource() Resource {
	return Resource{
		Type: s.Type,
		ID:   s.ID,
		Attributes: map[string]interface{}{
			"name": s.Name,
		},
	}
}

// Identifier возвращает идентификатор ресурса без атрибутов.
func (s Snapshot) Identifier() ResourceIdentifier {
	return ResourceIdentifier{Type: s.Type, ID: s.ID}
}
