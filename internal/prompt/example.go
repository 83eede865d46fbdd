package prompt

// ExampleText is the canned analysis returned by the example route so clients
// can integrate without loading a model.
const ExampleText = `{
  "description": "A man is sitting and eating a sandwich with peanut butter. He is wearing glasses, a light blue shirt, and a red wristwatch. There is a bottle on the table in front of him.",
  "objects": [
    {
      "name": "Man",
      "description": "A young male with glasses, wearing a light blue shirt and dark pants, eating a sandwich.",
      "attributes": "Wearing a red wristwatch, holding a sandwich with peanut butter, sitting on a black chair, and has a bottle on the table in front of him."
    },
    {
      "name": "Sandwich",
      "description": "A sandwich with peanut butter being eaten by the man.",
      "attributes": "Held in the man's right hand, partially eaten."
    },
    {
      "name": "Bottle",
      "description": "A bottle, likely a beverage, on the table in front of the man.",
      "attributes": "Standing upright, partially visible, and placed on the table."
    },
    {
      "name": "Chair",
      "description": "A black chair where the man is sitting.",
      "attributes": "The man is seated on it, and it is positioned in front of a table."
    },
    {
      "name": "Wall",
      "description": "The wall in the background of the image.",
      "attributes": "The wall has a poster or notice pinned to it, and there is a door on the right side."
    }
  ]
}`
