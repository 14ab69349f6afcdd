package templates

import "sort"

// Key names a template in the catalog.
type Key string

const (
	Flowchart Key = "flowchart"
	Sequence  Key = "sequence"
	Class     Key = "class"
	State     Key = "state"
	ER        Key = "er"
	Gantt     Key = "gantt"
	Pie       Key = "pie"
	Journey   Key = "journey"
	Git       Key = "git"
)

// Titles are the human labels shown in pickers, keyed like the catalog.
var Titles = map[Key]string{
	Flowchart: "Flowchart",
	Sequence:  "Sequence diagram",
	Class:     "Class diagram",
	State:     "State diagram",
	ER:        "Entity relationship",
	Gantt:     "Gantt chart",
	Pie:       "Pie chart",
	Journey:   "User journey",
	Git:       "Git graph",
}

// order is the display order; it mirrors the catalog, not alphabetical order.
var order = []Key{Flowchart, Sequence, Class, State, ER, Gantt, Pie, Journey, Git}

var catalog = map[Key]string{
	Flowchart: `flowchart TD
    A[Start] --> B{Condition?}
    B -->|Yes| C[Process 1]
    B -->|No| D[Process 2]
    C --> E[End]
    D --> E`,

	Sequence: `sequenceDiagram
    participant A as User
    participant B as System
    participant C as Database

    A->>B: Request
    B->>C: Query
    C-->>B: Response
    B-->>A: Result`,

	Class: `classDiagram
    class Animal {
        +String name
        +int age
        +eat()
        +sleep()
    }

    class Dog {
        +String breed
        +bark()
    }

    Animal <|-- Dog`,

	State: `stateDiagram-v2
    [*] --> Idle
    Idle --> Active : start
    Active --> Processing : process
    Processing --> Active : complete
    Active --> Idle : stop
    Idle --> [*]`,

	ER: `erDiagram
    USER ||--o{ ORDER : places
    ORDER ||--|{ ORDER_ITEM : contains
    PRODUCT ||--o{ ORDER_ITEM : includes

    USER {
        int id PK
        string name
        string email
    }

    ORDER {
        int id PK
        date created
        int user_id FK
    }`,

	Gantt: `gantt
    title Project Schedule
    dateFormat  YYYY-MM-DD
    section Planning
    Analysis       :a1, 2024-01-01, 30d
    Design         :a2, after a1, 20d
    section Development
    Frontend       :b1, after a2, 45d
    Backend        :b2, after a2, 40d
    section Testing
    QA             :c1, after b1, 15d`,

	Pie: `pie title Sales Distribution
    "Product A" : 386
    "Product B" : 85
    "Product C" : 150
    "Product D" : 50`,

	Journey: `journey
    title User Experience
    section Sign up
      Visit site: 5: User
      Create account: 3: User
      Verify email: 4: User
    section Purchase
      Search product: 4: User
      Add to cart: 5: User
      Pay: 3: User`,

	Git: `gitGraph
    commit
    branch develop
    checkout develop
    commit
    commit
    checkout main
    merge develop
    commit`,
}

// DefaultExample is loaded into a fresh editor.
const DefaultExample = `flowchart TD
    A[Start] --> B{First time?}
    B -->|Yes| C[Browse examples]
    B -->|No| D[Create diagram]
    C --> E[Pick a template]
    E --> F[Edit source]
    D --> F
    F --> G[Preview]
    G --> H{Happy?}
    H -->|No| F
    H -->|Yes| I[Export]
    I --> J[Done]

    style A fill:#e1f5fe
    style J fill:#e8f5e8
    style B fill:#fff3e0
    style H fill:#fff3e0`

// Lookup returns the template text for key. Unknown keys report false.
func Lookup(key Key) (string, bool) {
	text, ok := catalog[key]
	return text, ok
}

// Keys returns all template keys in display order.
func Keys() []Key {
	return append([]Key(nil), order...)
}

// SortedKeys returns the keys alphabetically, for stable CLI listings.
func SortedKeys() []Key {
	out := Keys()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
